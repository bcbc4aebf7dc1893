package pagination

import "testing"

func TestSliceWindows(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}

	first := Slice(items, Params{Page: 1, PageSize: 3})
	if len(first.Items) != 3 || first.Items[0] != 1 || !first.HasMore {
		t.Fatalf("unexpected first page %+v", first)
	}

	last := Slice(items, Params{Page: 3, PageSize: 3})
	if len(last.Items) != 2 || last.Items[1] != 8 || last.HasMore {
		t.Fatalf("unexpected last page %+v", last)
	}

	beyond := Slice(items, Params{Page: 9, PageSize: 3})
	if len(beyond.Items) != 0 || beyond.Total != 8 || beyond.HasMore {
		t.Fatalf("unexpected out-of-range page %+v", beyond)
	}
}

func TestParamsNormalize(t *testing.T) {
	got := Params{}.Normalize()
	if got.Page != 1 || got.PageSize != DefaultPageSize {
		t.Fatalf("unexpected defaults %+v", got)
	}
	if got := (Params{Page: 2, PageSize: 1000}).Normalize(); got.PageSize != MaxPageSize {
		t.Fatalf("expected page size clamp, got %d", got.PageSize)
	}
}
