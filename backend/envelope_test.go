package backend

import "testing"

type probeItem struct {
	ID int64 `json:"id"`
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantIDs   []int64
		wantTotal int
		wantErr   bool
	}{
		{
			"bare array",
			`[{"id": 1}, {"id": 2}]`,
			[]int64{1, 2}, 2, false,
		},
		{
			"empty bare array",
			`[]`,
			nil, 0, false,
		},
		{
			"page envelope",
			`{"count": 40, "next": "p2", "previous": null, "results": [{"id": 5}]}`,
			[]int64{5}, 40, false,
		},
		{
			"data envelope with total",
			`{"data": [{"id": 7}, {"id": 8}], "total": 12}`,
			[]int64{7, 8}, 12, false,
		},
		{
			"data envelope without total",
			`{"data": [{"id": 7}]}`,
			[]int64{7}, 1, false,
		},
		{
			"envelope without list",
			`{"message": "ok"}`,
			nil, 0, true,
		},
		{
			"not json",
			`oops`,
			nil, 0, true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var items []probeItem
			total, err := DecodeList([]byte(tc.body), &items)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeList: %v", err)
			}
			if total != tc.wantTotal {
				t.Errorf("total = %d, want %d", total, tc.wantTotal)
			}
			if len(items) != len(tc.wantIDs) {
				t.Fatalf("got %d items, want %d", len(items), len(tc.wantIDs))
			}
			for i, id := range tc.wantIDs {
				if items[i].ID != id {
					t.Errorf("items[%d].ID = %d, want %d", i, items[i].ID, id)
				}
			}
		})
	}
}
