package codec

import "reflect"

// isNil returns true if m is a typed nil pointer.
func isNil(m interface{}) bool {
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
