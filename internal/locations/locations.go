// Package locations holds the static list of selectable facilities.
package locations

// PerPage is the number of locations shown per keyboard page.
const PerPage = 5

// List is the fixed roster of facilities, in display order. Selection
// indices sent by the transport are absolute positions in this slice.
var List = []string{
	"Москва 0-1 (Омега Плаза)",
	"Москва 0-10 (Магистраль Плаза)",
	"Москва 0-11 (Симонов Плаза)",
	"Москва 0-12 (Арма)",
	"Москва 0-13 (Смарт Парк)",
	"Москва 0-14 (Верейская Плаза)",
	"Москва 0-15 (Сретенка)",
	"Москва 0-15.1 (Учебный Центр)",
	"Москва 0-16.5 (Т-Банк | 5 этаж)",
	"Москва 0-16.7 (Т-Банк | 7 этаж)",
	"Москва 0-16.9 (Т-Банк | 9 этаж)",
	"Москва 0-17 (Хлебозавод)",
	"Москва 0-18 (Альфа-Банк Паскаль)",
	"Москва 0-19 (Солнце Москвы)",
	"Москва 0-2 (Сити-Федерация)",
	"Москва 0-21.4 (Центральный Университет | 4 этаж)",
	"Москва 0-21.8 (Центральный Университет | 8 этаж)",
	"Москва 0-22 (РИО)",
	"Москва 0-23 (ВЭБ Центр)",
	"Москва 0-24 (Поклонка Плейс Остров)",
	"Москва 0-27 (Альфа-Банк Немецкий центр)",
	"Москва 0-3 (Даймонд Холл)",
	"Москва 0-30 (Афимолл Галерея)",
}

// Item is one location on a page together with its absolute index.
type Item struct {
	Index int
	Name  string
}

// PageView is one keyboard page of the location list.
type PageView struct {
	Number  int
	Items   []Item
	HasPrev bool
	HasNext bool
}

// Page returns the requested page, clamped into the valid range.
func Page(n int) PageView {
	last := (len(List) - 1) / PerPage
	if n < 0 {
		n = 0
	}
	if n > last {
		n = last
	}

	start := n * PerPage
	end := start + PerPage
	if end > len(List) {
		end = len(List)
	}

	view := PageView{Number: n, HasPrev: n > 0, HasNext: end < len(List)}
	for i := start; i < end; i++ {
		view.Items = append(view.Items, Item{Index: i, Name: List[i]})
	}
	return view
}

// At returns the location at an absolute index, with ok reporting whether
// the index is in range.
func At(i int) (string, bool) {
	if i < 0 || i >= len(List) {
		return "", false
	}
	return List[i], true
}
