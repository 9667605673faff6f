package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestConfigGenSldlWritesBothProfiles(t *testing.T) {
	fs := useTestConfig(t)

	if err := configGenSldl(newTestContext(t, "gen-sldl")); err != nil {
		t.Fatal(err)
	}

	for _, file := range []string{"sldl.conf", "sldl-wishlist.conf"} {
		data, err := afero.ReadFile(fs, file)
		if err != nil {
			t.Fatalf("%s not written: %v", file, err)
		}
		if !strings.Contains(string(data), "username = tester") {
			t.Errorf("%s missing credentials:\n%s", file, data)
		}
	}
}

func TestConfigShow(t *testing.T) {
	useTestConfig(t)

	if err := configShow(newTestContext(t, "show")); err != nil {
		t.Fatal(err)
	}
}
