package model

import "testing"

func TestProduct_LowStock_Boundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		quantity    int
		minQuantity int
		want        bool
	}{
		{"below threshold", 2, 5, true},
		{"at threshold", 5, 5, true},
		{"one above threshold", 6, 5, false},
		{"zero quantity", 0, 5, true},
		{"zero threshold zero stock", 0, 0, true},
		{"zero threshold with stock", 1, 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &Product{Quantity: tt.quantity, MinQuantity: tt.minQuantity}
			if got := p.LowStock(); got != tt.want {
				t.Errorf("LowStock() with quantity=%d min=%d = %v, want %v",
					tt.quantity, tt.minQuantity, got, tt.want)
			}
		})
	}
}

func TestProduct_Validate(t *testing.T) {
	t.Parallel()

	p := &Product{}
	if err := p.Validate(); err != ErrNameRequired {
		t.Errorf("Validate() on empty product = %v, want ErrNameRequired", err)
	}

	p.Name = "Cabo HDMI"
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() with name set = %v, want nil", err)
	}
}

func TestProduct_SearchText(t *testing.T) {
	t.Parallel()

	p := &Product{Name: "Cabo HDMI", Reference: "CB-001"}
	fields := p.SearchText()

	found := false
	for _, f := range fields {
		if f == "CB-001" {
			found = true
		}
	}
	if !found {
		t.Error("SearchText() should include the reference field")
	}
}
