package model

import "testing"

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"client", "admin", "super_admin", "manufacturer"} {
		if _, ok := ParseRole(valid); !ok {
			t.Errorf("expected %q to parse", valid)
		}
	}
	for _, invalid := range []string{"", "root", "Admin", "client "} {
		if _, ok := ParseRole(invalid); ok {
			t.Errorf("expected %q to be rejected", invalid)
		}
	}
}

func TestParseCustodian(t *testing.T) {
	for _, valid := range []string{"admin", "manufacturer", "client"} {
		if _, ok := ParseCustodian(valid); !ok {
			t.Errorf("expected %q to parse", valid)
		}
	}
	for _, invalid := range []string{"", "warehouse", "Manufacturer"} {
		if _, ok := ParseCustodian(invalid); ok {
			t.Errorf("expected %q to be rejected", invalid)
		}
	}
}

func TestParseRouteAction(t *testing.T) {
	valid := []string{
		"send_to_admin", "start_production", "mark_shipped",
		"send_to_manufacturer", "approve_for_production", "request_sample",
		"send_to_client", "approve", "request_revision",
	}
	for _, s := range valid {
		if _, ok := ParseRouteAction(s); !ok {
			t.Errorf("expected %q to parse", s)
		}
	}
	for _, invalid := range []string{"", "transmogrify", "Approve", "ship"} {
		if _, ok := ParseRouteAction(invalid); ok {
			t.Errorf("expected %q to be rejected", invalid)
		}
	}
}

func TestInvoiceItemAmount(t *testing.T) {
	item := InvoiceItem{Quantity: 5, UnitPrice: 120}
	if got := item.Amount(); got != 600 {
		t.Fatalf("expected 600, got %v", got)
	}
}
