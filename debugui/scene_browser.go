package debugui

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/vane/scene"
)

func NewSceneBrowser(entitiesPerPage int) *SceneBrowser {
	if entitiesPerPage <= 0 {
		entitiesPerPage = 100
	}
	return &SceneBrowser{
		cache:           &browserCache{sortAscending: true},
		selected:        scene.NoEntity,
		entitiesPerPage: entitiesPerPage,
	}
}

// Selected returns the entity picked in the table, or NoEntity.
func (sb *SceneBrowser) Selected() scene.EntityID { return sb.selected }

func (sb *SceneBrowser) Select(id scene.EntityID) { sb.selected = id }

func (sb *SceneBrowser) Render(s *scene.Scene) {
	if !imgui.BeginV("Scene Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	sb.rebuildCacheIfNeeded(s)

	imgui.InputTextWithHint("##search", "Search entities...", &sb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear") {
		sb.filterText = ""
		sb.currentPage = 0
	}
	imgui.SameLine()
	if imgui.Button("Refresh") {
		sb.invalidate()
	}

	imgui.InputTextWithHint("##spawn", "New entity name", &sb.spawnName, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Spawn") {
		name := strings.TrimSpace(sb.spawnName)
		if name == "" {
			name = "entity"
		}
		sb.selected = s.Spawn(name)
		sb.spawnName = ""
		sb.invalidate()
	}
	imgui.SameLine()
	if imgui.Button("Destroy") {
		if sb.selected != scene.NoEntity {
			s.Destroy(sb.selected)
			sb.selected = scene.NoEntity
			sb.invalidate()
		}
	}

	rows := sb.filteredRows()
	sb.renderTable(rows)
	sb.renderPagination(len(rows))

	imgui.End()
}

func (sb *SceneBrowser) renderTable(rows []entityRow) {
	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg |
		imgui.TableFlagsSortable | imgui.TableFlagsScrollY

	if !imgui.BeginTableV("##entities", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		return
	}

	imgui.TableSetupColumn("ID")
	imgui.TableSetupColumn("Name")
	imgui.TableSetupColumn("Components")
	imgui.TableSetupColumn("Count")
	imgui.TableHeadersRow()

	if specs := imgui.TableGetSortSpecs(); specs.SpecsDirty() && specs.SpecsCount() > 0 {
		spec := specs.Specs()
		sb.cache.sortColumn = int(spec.ColumnIndex())
		sb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
		sb.sortRows()
		specs.SetSpecsDirty(false)
	}

	start := sb.currentPage * sb.entitiesPerPage
	if start >= len(rows) {
		start = 0
		sb.currentPage = 0
	}
	end := start + sb.entitiesPerPage
	if end > len(rows) {
		end = len(rows)
	}

	for _, row := range rows[start:end] {
		imgui.TableNextRow()

		imgui.TableSetColumnIndex(0)
		label := fmt.Sprintf("%d:%d", row.ID.Index(), row.ID.Generation())
		if imgui.SelectableBoolV(label, sb.selected == row.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
			sb.selected = row.ID
		}

		imgui.TableNextColumn()
		if row.Active {
			imgui.Text(row.Name)
		} else {
			imgui.Text(row.Name + " (inactive)")
		}

		imgui.TableNextColumn()
		imgui.Text(strings.Join(row.Kinds, ", "))

		imgui.TableNextColumn()
		imgui.Text(fmt.Sprintf("%d", len(row.Kinds)))
	}

	imgui.EndTable()
}

func (sb *SceneBrowser) renderPagination(total int) {
	if total <= sb.entitiesPerPage {
		imgui.Text(fmt.Sprintf("%d entities", total))
		return
	}

	totalPages := (total + sb.entitiesPerPage - 1) / sb.entitiesPerPage
	if imgui.Button("Prev") && sb.currentPage > 0 {
		sb.currentPage--
	}
	imgui.SameLine()
	imgui.Text(fmt.Sprintf("Page %d/%d (%d entities)", sb.currentPage+1, totalPages, total))
	imgui.SameLine()
	if imgui.Button("Next") && sb.currentPage < totalPages-1 {
		sb.currentPage++
	}
}

func (sb *SceneBrowser) invalidate() {
	sb.cache.rows = nil
	sb.cache.lastLen = -1
}

func (sb *SceneBrowser) rebuildCacheIfNeeded(s *scene.Scene) {
	if sb.cache.rows != nil && sb.cache.lastLen == s.Len() {
		return
	}

	ids := s.EntityIDs()
	rows := make([]entityRow, 0, len(ids))
	for _, id := range ids {
		comps := s.ComponentsOn(id)
		kinds := make([]string, 0, len(comps))
		for _, c := range comps {
			if k, ok := s.Registry().KindFor(reflect.TypeOf(c)); ok {
				kinds = append(kinds, k.Name)
			} else {
				kinds = append(kinds, reflect.TypeOf(c).String())
			}
		}
		rows = append(rows, entityRow{
			ID:     id,
			Name:   s.EntityName(id),
			Active: s.EntityActive(id),
			Kinds:  kinds,
		})
	}

	sb.cache.rows = rows
	sb.cache.lastLen = s.Len()
	if sb.selected != scene.NoEntity && !s.Alive(sb.selected) {
		sb.selected = scene.NoEntity
	}
	sb.sortRows()
}

func (sb *SceneBrowser) filteredRows() []entityRow {
	if sb.filterText == "" {
		return sb.cache.rows
	}

	needle := strings.ToLower(sb.filterText)
	filtered := make([]entityRow, 0, len(sb.cache.rows))
	for _, row := range sb.cache.rows {
		if rowMatches(row, needle) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func rowMatches(row entityRow, needle string) bool {
	if strings.Contains(strings.ToLower(row.Name), needle) {
		return true
	}
	if strings.Contains(fmt.Sprintf("%d:%d", row.ID.Index(), row.ID.Generation()), needle) {
		return true
	}
	for _, kind := range row.Kinds {
		if strings.Contains(strings.ToLower(kind), needle) {
			return true
		}
	}
	return false
}

func (sb *SceneBrowser) sortRows() {
	rows := sb.cache.rows
	asc := sb.cache.sortAscending

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !asc {
			a, b = b, a
		}
		switch sb.cache.sortColumn {
		case 1:
			return a.Name < b.Name
		case 2:
			return strings.Join(a.Kinds, ",") < strings.Join(b.Kinds, ",")
		case 3:
			return len(a.Kinds) < len(b.Kinds)
		default:
			return a.ID < b.ID
		}
	})
}
