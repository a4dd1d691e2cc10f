package gridexport

import (
	"reflect"
	"strings"
)

// AttributeValue reads a named attribute from a struct or map record.
// Struct fields match by Go name or by their `json` tag; dotted names walk nested values.
// Missing attributes read as nil.
func AttributeValue(record any, attribute string) any {
	if record == nil || attribute == "" {
		return nil
	}

	v := reflect.ValueOf(record)
	for _, part := range strings.Split(attribute, ".") {
		v = lookup(v, part)
		if !v.IsValid() {
			return nil
		}
	}
	if v.Kind() == reflect.Ptr && v.IsNil() {
		return nil
	}
	return v.Interface()
}

func lookup(v reflect.Value, name string) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		if f := v.FieldByName(name); f.IsValid() && f.CanInterface() {
			return f
		}
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
			if tag == name {
				return v.Field(i)
			}
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}
		}
		val := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if val.IsValid() {
			return val
		}
	}
	return reflect.Value{}
}
