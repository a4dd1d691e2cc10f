package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/locvowork/employee_management_sample/gridexport/internal/domain"
	"github.com/olivere/elastic/v7"
)

const (
	dateLayout = "2006-01-02"

	// maxResultWindow is the default index.max_result_window; from+size
	// past it is rejected by the node.
	maxResultWindow = 10000
)

// NewClient connects to a single Elasticsearch node without sniffing.
func NewClient(url string) (*elastic.Client, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create elastic client: %w", err)
	}
	return client, nil
}

// employeeDocument is the indexed shape of an employee.
type employeeDocument struct {
	EmpNo     int    `json:"emp_no"`
	BirthDate string `json:"birth_date"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	HireDate  string `json:"hire_date"`
	Salary    *int64 `json:"salary"`
	DeptName  string `json:"dept_name"`
}

func (d employeeDocument) toEmployee() (domain.Employee, error) {
	e := domain.Employee{
		EmpNo:     d.EmpNo,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Gender:    d.Gender,
		Salary:    d.Salary,
		DeptName:  d.DeptName,
	}
	var err error
	if d.BirthDate != "" {
		if e.BirthDate, err = time.Parse(dateLayout, d.BirthDate); err != nil {
			return e, fmt.Errorf("employee %d birth_date: %w", d.EmpNo, err)
		}
	}
	if d.HireDate != "" {
		if e.HireDate, err = time.Parse(dateLayout, d.HireDate); err != nil {
			return e, fmt.Errorf("employee %d hire_date: %w", d.EmpNo, err)
		}
	}
	return e, nil
}

// EmployeeSearchProvider serves employees from an Elasticsearch index one
// page at a time, ordered by emp_no. The first page uses from/size; each
// later page continues with search_after from the last hit of the page
// before it, so deep pages never hit the result window.
type EmployeeSearchProvider struct {
	client   *elastic.Client
	index    string
	query    elastic.Query
	pageSize int
	page     int

	// after holds the sort values each page starts after.
	after map[int][]interface{}

	models  []any
	loaded  bool
	total   int64
	counted bool
}

func NewEmployeeSearchProvider(client *elastic.Client, index string, filter domain.EmployeeFilter) *EmployeeSearchProvider {
	return &EmployeeSearchProvider{
		client:   client,
		index:    index,
		query:    filterQuery(filter),
		pageSize: 20,
		after:    map[int][]interface{}{},
	}
}

func (p *EmployeeSearchProvider) SetPageSize(size int) {
	if size > 0 && size != p.pageSize {
		p.pageSize = size
		p.after = map[int][]interface{}{}
	}
}

func (p *EmployeeSearchProvider) Page() int { return p.page }

func (p *EmployeeSearchProvider) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	p.page = page
}

func (p *EmployeeSearchProvider) Paginated() bool { return true }

func (p *EmployeeSearchProvider) Refresh() {
	p.models = nil
	p.loaded = false
}

// TotalCount is the hit count reported by the last search.
func (p *EmployeeSearchProvider) TotalCount() int64 { return p.total }

func (p *EmployeeSearchProvider) Models(ctx context.Context) ([]any, error) {
	if p.loaded {
		return p.models, nil
	}

	from := p.page * p.pageSize
	if p.counted && int64(from) >= p.total {
		p.models, p.loaded = nil, true
		return nil, nil
	}

	search := p.client.Search(p.index).
		Query(p.query).
		Sort("emp_no", true).
		Size(p.pageSize).
		TrackTotalHits(true)
	switch after, ok := p.after[p.page]; {
	case p.page == 0:
		search = search.From(0)
	case ok:
		search = search.SearchAfter(after...)
	case from+p.pageSize <= maxResultWindow:
		search = search.From(from)
	default:
		return nil, fmt.Errorf("page %d of size %d is past the result window and was not reached in order", p.page, p.pageSize)
	}

	res, err := search.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}

	p.total, p.counted = res.TotalHits(), true
	if res.Hits == nil {
		p.models, p.loaded = nil, true
		return nil, nil
	}
	models := make([]any, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc employeeDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode hit %s: %w", hit.Id, err)
		}
		e, err := doc.toEmployee()
		if err != nil {
			return nil, err
		}
		models = append(models, e)
	}
	if n := len(res.Hits.Hits); n > 0 && len(res.Hits.Hits[n-1].Sort) > 0 {
		p.after[p.page+1] = res.Hits.Hits[n-1].Sort
	}

	p.models, p.loaded = models, true
	return models, nil
}

func filterQuery(filter domain.EmployeeFilter) elastic.Query {
	q := elastic.NewBoolQuery()
	if filter.DeptName != "" {
		q = q.Filter(elastic.NewTermQuery("dept_name", filter.DeptName))
	}
	if filter.HiredAfter != nil || filter.HiredBefore != nil {
		r := elastic.NewRangeQuery("hire_date").Format("yyyy-MM-dd")
		if filter.HiredAfter != nil {
			r = r.Gte(filter.HiredAfter.Format(dateLayout))
		}
		if filter.HiredBefore != nil {
			r = r.Lt(filter.HiredBefore.Format(dateLayout))
		}
		q = q.Filter(r)
	}
	return q
}
