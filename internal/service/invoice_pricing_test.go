package service

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputePricing_FromLineItems(t *testing.T) {
	items := []LineItemRequest{
		{Description: "Widget", Quantity: "2", UnitPrice: "10.50"},
		{Description: "Gadget", Quantity: "1", UnitPrice: "4"},
	}

	p, err := computePricing(items, "", "5", "0.10")
	if err != nil {
		t.Fatalf("computePricing() error = %v", err)
	}

	if !p.subtotal.Equal(decimal.NewFromInt(25)) {
		t.Errorf("subtotal = %s, want 25", p.subtotal)
	}
	// tax = (25 - 5) * 0.10 = 2
	if !p.taxAmount.Equal(decimal.NewFromInt(2)) {
		t.Errorf("taxAmount = %s, want 2", p.taxAmount)
	}
	// total = 25 - 5 + 2 = 22
	if !p.total.Equal(decimal.NewFromInt(22)) {
		t.Errorf("total = %s, want 22", p.total)
	}
	if len(p.items) != 2 || p.items[0].LineNumber != 1 || p.items[1].LineNumber != 2 {
		t.Errorf("line numbering wrong: %+v", p.items)
	}
	if !p.items[0].Amount.Equal(decimal.NewFromInt(21)) {
		t.Errorf("line 1 amount = %s, want 21", p.items[0].Amount)
	}
}

func TestComputePricing_FromSubtotal(t *testing.T) {
	p, err := computePricing(nil, "100", "", "")
	if err != nil {
		t.Fatalf("computePricing() error = %v", err)
	}
	if !p.total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("total = %s, want 100", p.total)
	}
	if len(p.items) != 0 {
		t.Errorf("no line items expected, got %d", len(p.items))
	}
}

func TestComputePricing_Errors(t *testing.T) {
	tests := []struct {
		name     string
		items    []LineItemRequest
		subtotal string
		discount string
		taxRate  string
	}{
		{"missing subtotal without items", nil, "", "", ""},
		{"bad subtotal", nil, "abc", "", ""},
		{"bad discount", nil, "100", "x", ""},
		{"bad tax rate", nil, "100", "", "x"},
		{"bad quantity", []LineItemRequest{{Quantity: "x", UnitPrice: "1"}}, "", "", ""},
		{"bad unit price", []LineItemRequest{{Quantity: "1", UnitPrice: "x"}}, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := computePricing(tt.items, tt.subtotal, tt.discount, tt.taxRate); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestNormalizeAlias(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Acme Corp", "acme-corp"},
		{"  Globex  GmbH & Co.  ", "globex-gmbh-co"},
		{"UPPER", "upper"},
		{"--already--", "already"},
		{"Ünïcode Name", "n-code-name"},
	}

	for _, tt := range tests {
		if got := normalizeAlias(tt.name); got != tt.want {
			t.Errorf("normalizeAlias(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
