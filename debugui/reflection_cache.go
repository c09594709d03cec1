package debugui

import (
	"reflect"
	"sync"
)

// FieldInfo is the cached shape of one exported struct field, so the
// inspector does not re-walk types every frame.
type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Index     int
	IsPointer bool
	IsStruct  bool
	IsSlice   bool
	IsMap     bool
}

type reflectionCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]FieldInfo
}

var globalReflectionCache = &reflectionCache{
	fields: make(map[reflect.Type][]FieldInfo),
}

func (rc *reflectionCache) GetFields(t reflect.Type) []FieldInfo {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	rc.mu.RLock()
	if fields, ok := rc.fields[t]; ok {
		rc.mu.RUnlock()
		return fields
	}
	rc.mu.RUnlock()

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if fields, ok := rc.fields[t]; ok {
		return fields
	}

	fields := make([]FieldInfo, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		// Embedded bases carry wiring, not inspectable state.
		if field.Anonymous {
			continue
		}

		ft := field.Type
		info := FieldInfo{
			Name:      field.Name,
			Type:      ft,
			Index:     i,
			IsPointer: ft.Kind() == reflect.Ptr,
		}
		if info.IsPointer {
			ft = ft.Elem()
		}
		switch ft.Kind() {
		case reflect.Struct:
			info.IsStruct = true
		case reflect.Slice, reflect.Array:
			info.IsSlice = true
		case reflect.Map:
			info.IsMap = true
		}
		fields = append(fields, info)
	}

	rc.fields[t] = fields
	return fields
}
