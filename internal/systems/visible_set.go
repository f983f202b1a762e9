package systems

import (
	"sort"

	"github.com/jsuvanto/pyrl/internal/domain"
	"github.com/zyedidia/generic/mapset"
)

// VisibleSet - множество видимых клеток. Создается заново на каждый расчет,
// сравнение "было/стало" - забота вызывающего (см. Diff).
type VisibleSet struct {
	cells mapset.Set[domain.Coord]
}

// NewVisibleSet создает пустое множество
func NewVisibleSet() *VisibleSet {
	return &VisibleSet{cells: mapset.New[domain.Coord]()}
}

// Add - идемпотентная вставка
func (v *VisibleSet) Add(c domain.Coord) {
	v.cells.Put(c)
}

// Has проверяет, видна ли клетка
func (v *VisibleSet) Has(c domain.Coord) bool {
	return v.cells.Has(c)
}

// Len возвращает количество видимых клеток
func (v *VisibleSet) Len() int {
	return v.cells.Size()
}

// Each обходит клетки в произвольном порядке
func (v *VisibleSet) Each(fn func(c domain.Coord)) {
	v.cells.Each(fn)
}

// Slice возвращает клетки, отсортированные по (row, col), чтобы вывод был стабильным
func (v *VisibleSet) Slice() []domain.Coord {
	out := make([]domain.Coord, 0, v.Len())
	v.cells.Each(func(c domain.Coord) {
		out = append(out, c)
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Equal сравнивает два множества поэлементно
func (v *VisibleSet) Equal(other *VisibleSet) bool {
	if v.Len() != other.Len() {
		return false
	}
	equal := true
	v.cells.Each(func(c domain.Coord) {
		if !other.Has(c) {
			equal = false
		}
	})
	return equal
}

// Diff возвращает клетки, которые появились (gained) и пропали (lost)
// по сравнению с предыдущим результатом. prev может быть nil.
func (v *VisibleSet) Diff(prev *VisibleSet) (gained, lost []domain.Coord) {
	for _, c := range v.Slice() {
		if prev == nil || !prev.Has(c) {
			gained = append(gained, c)
		}
	}
	if prev == nil {
		return gained, nil
	}
	for _, c := range prev.Slice() {
		if !v.Has(c) {
			lost = append(lost, c)
		}
	}
	return gained, lost
}
