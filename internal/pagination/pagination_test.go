package pagination

import "testing"

func TestDefaults(t *testing.T) {
	tests := []struct {
		name         string
		in           PageRequest
		wantPage     int
		wantPageSize int
	}{
		{name: "zero values", in: PageRequest{}, wantPage: 1, wantPageSize: 20},
		{name: "kept", in: PageRequest{Page: 3, PageSize: 50}, wantPage: 3, wantPageSize: 50},
		{name: "capped", in: PageRequest{Page: 1, PageSize: 500}, wantPage: 1, wantPageSize: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.in
			req.Defaults()
			if req.Page != tt.wantPage || req.PageSize != tt.wantPageSize {
				t.Errorf("got page=%d size=%d, want page=%d size=%d", req.Page, req.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse[int](nil, 2, 10, 25)
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", resp.TotalPages)
	}
	if resp.Data == nil {
		t.Error("expected empty slice, got nil")
	}

	req := PageRequest{Page: 2, PageSize: 10}
	if req.Offset() != 10 {
		t.Errorf("expected offset 10, got %d", req.Offset())
	}
}
