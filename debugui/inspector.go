package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/vane/scene"
)

func NewInspector() *Inspector {
	return &Inspector{selected: scene.NoEntity}
}

func (in *Inspector) Render(s *scene.Scene, selected scene.EntityID) {
	if !imgui.BeginV("Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	in.selected = selected

	if in.selected == scene.NoEntity {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}
	if !s.Alive(in.selected) {
		imgui.Text("Selected entity no longer exists")
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Name: %s", s.EntityName(in.selected)))
	imgui.Text(fmt.Sprintf("GUID: %s", s.GUID(in.selected)))

	active := s.EntityActive(in.selected)
	if imgui.Checkbox("Active", &active) {
		s.SetEntityActive(in.selected, active)
	}

	imgui.Separator()
	if tr := s.Transform(in.selected); tr != nil {
		if imgui.TreeNodeStr("Transform") {
			renderStructFields(reflect.ValueOf(tr).Elem())
			imgui.TreePop()
		}
	}

	imgui.Separator()
	for _, c := range s.ComponentsOn(in.selected) {
		t := reflect.TypeOf(c)
		label := t.String()
		if k, ok := s.Registry().KindFor(t); ok {
			label = k.Name
		}
		if !imgui.TreeNodeStr(label) {
			continue
		}
		enabled := c.Enabled()
		if imgui.Checkbox("Enabled", &enabled) {
			c.SetEnabled(enabled)
		}
		renderStructFields(reflect.ValueOf(c).Elem())
		imgui.TreePop()
	}

	imgui.End()
}

// renderStructFields draws editable widgets for every exported field.
// Components are live pointers, so edits land on the entity immediately.
func renderStructFields(val reflect.Value) {
	for _, field := range globalReflectionCache.GetFields(val.Type()) {
		fv := val.Field(field.Index)
		if field.IsPointer {
			if fv.IsNil() {
				imgui.BulletText(fmt.Sprintf("%s: nil", field.Name))
				continue
			}
			fv = fv.Elem()
		}
		renderFieldEditor(field.Name, fv)
	}
}

func renderFieldEditor(name string, val reflect.Value) {
	switch val.Kind() {
	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(name)
		imgui.SameLine()
		imgui.SetNextItemWidth(120)
		if imgui.InputInt("##"+name, &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(name)
		imgui.SameLine()
		imgui.SetNextItemWidth(120)
		if imgui.InputInt("##"+name, &v) && val.CanSet() && v >= 0 {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(name)
		imgui.SameLine()
		imgui.SetNextItemWidth(120)
		if imgui.InputFloat("##"+name, &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.String:
		v := val.String()
		imgui.Text(name)
		imgui.SameLine()
		imgui.SetNextItemWidth(180)
		if imgui.InputTextWithHint("##"+name, "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			renderStructFields(val)
			imgui.TreePop()
		}

	case reflect.Slice, reflect.Array:
		imgui.BulletText(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.BulletText(fmt.Sprintf("%s: {%d keys}", name, val.Len()))

	default:
		imgui.BulletText(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}
