package main

import (
	"bytes"
	"errors"
	"route-order-service/internal/domain"
	"slices"
	"strings"
	"testing"
)

func TestReadAddresses(t *testing.T) {
	in := strings.NewReader("1 Main St\n\n2 Oak Ave\ndone\nignored\n")
	var out bytes.Buffer

	got, err := readAddresses(in, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Equal(got, []string{"1 Main St", "2 Oak Ave"}) {
		t.Fatalf("addresses = %v", got)
	}
	if !strings.HasPrefix(out.String(), "Address 1: ") || !strings.Contains(out.String(), "Address 3: ") {
		t.Errorf("prompts = %q", out.String())
	}
}

func TestReadAddressesStopsAtEOF(t *testing.T) {
	got, err := readAddresses(strings.NewReader("Home\nShop"), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []string{"Home", "Shop"}) {
		t.Fatalf("addresses = %v", got)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	t.Setenv("MAP_PROVIDER", "carrier-pigeon")

	var out bytes.Buffer
	err := run(strings.NewReader("Home\ndone\n"), &out)
	if err == nil || !strings.Contains(err.Error(), "MAP_PROVIDER") {
		t.Fatalf("err = %v, want MAP_PROVIDER error", err)
	}
	if out.Len() != 0 {
		t.Errorf("output = %q, want nothing before config is valid", out.String())
	}
}

func TestRunWithoutAddressesPrintsNoRoute(t *testing.T) {
	t.Setenv("MAP_PROVIDER", "ors")
	t.Setenv("ORS_API_KEY", "test-key")

	var out bytes.Buffer
	err := run(strings.NewReader("done\n"), &out)
	if !errors.Is(err, domain.ErrPrecondition) {
		t.Fatalf("err = %v, want ErrPrecondition", err)
	}
	if strings.Contains(out.String(), "Route") {
		t.Errorf("partial route printed: %q", out.String())
	}
}
