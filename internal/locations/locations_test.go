package locations

import "testing"

func TestPage_First(t *testing.T) {
	page := Page(0)
	if len(page.Items) != PerPage {
		t.Fatalf("Expected %d items, got %d", PerPage, len(page.Items))
	}
	if page.HasPrev {
		t.Error("First page should not have a previous page")
	}
	if !page.HasNext {
		t.Error("First page should have a next page")
	}
	if page.Items[0].Index != 0 || page.Items[0].Name != List[0] {
		t.Errorf("Unexpected first item: %+v", page.Items[0])
	}
}

func TestPage_Last(t *testing.T) {
	last := (len(List) - 1) / PerPage
	page := Page(last)
	if page.HasNext {
		t.Error("Last page should not have a next page")
	}
	if !page.HasPrev {
		t.Error("Last page should have a previous page")
	}
	want := len(List) - last*PerPage
	if len(page.Items) != want {
		t.Errorf("Expected %d items on last page, got %d", want, len(page.Items))
	}
}

func TestPage_Clamps(t *testing.T) {
	if got := Page(-3).Number; got != 0 {
		t.Errorf("Expected negative page to clamp to 0, got %d", got)
	}
	last := (len(List) - 1) / PerPage
	if got := Page(999).Number; got != last {
		t.Errorf("Expected oversized page to clamp to %d, got %d", last, got)
	}
}

func TestAt(t *testing.T) {
	if name, ok := At(0); !ok || name != List[0] {
		t.Errorf("At(0) = %q, %v", name, ok)
	}
	if _, ok := At(-1); ok {
		t.Error("At(-1) should not be ok")
	}
	if _, ok := At(len(List)); ok {
		t.Error("At(len) should not be ok")
	}
}
