package realtime

import (
	"fmt"
	"strings"
)

// Filter ограничивает подписку строками, у которых Column == Value.
// Пустой Column означает "все строки таблицы".
type Filter struct {
	Column string
	Value  string
}

// Eq строит фильтр вида column=eq.value.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: fmt.Sprint(value)}
}

// ParseFilter разбирает запись "column=eq.value". Пустая строка - фильтр без условий.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return Filter{}, nil
	}
	column, rest, ok := strings.Cut(s, "=")
	if !ok || column == "" {
		return Filter{}, fmt.Errorf("неверный фильтр %q", s)
	}
	value, ok := strings.CutPrefix(rest, "eq.")
	if !ok {
		return Filter{}, fmt.Errorf("неверный фильтр %q: поддерживается только eq", s)
	}
	return Filter{Column: column, Value: value}, nil
}

func (f Filter) IsZero() bool { return f.Column == "" }

func (f Filter) String() string {
	if f.IsZero() {
		return ""
	}
	return f.Column + "=eq." + f.Value
}

// Match проверяет строку изменения. Значения сравниваются в текстовом виде.
// UPDATE совпадает и по старой версии строки: запись, ушедшая из фильтра, тоже видна.
func (f Filter) Match(c Change) bool {
	if f.IsZero() {
		return true
	}
	if f.matchRow(c.Row()) {
		return true
	}
	return c.Type == Update && f.matchRow(c.OldRecord)
}

func (f Filter) matchRow(row map[string]any) bool {
	v, ok := row[f.Column]
	if !ok || v == nil {
		return false
	}
	return fmt.Sprint(v) == f.Value
}
