package sqlite

import "testing"

func TestParseDSN(t *testing.T) {
	cases := []struct {
		dsn  string
		want string
	}{
		{"sqlite://:memory:", ":memory:"},
		{"sqlite://records.db", "./records.db"},
		{"sqlite://./records.db", "./records.db"},
		{"sqlite:///var/lib/records.db", "/var/lib/records.db"},
		{"sqlite://records.db?mode=ro", "./records.db?mode=ro"},
		{"sqlite://my%20records.db", "./my records.db"},
	}
	for _, tc := range cases {
		t.Run(tc.dsn, func(t *testing.T) {
			got, err := parseDSN(tc.dsn)
			if err != nil {
				t.Fatalf("parseDSN(%q): %v", tc.dsn, err)
			}
			if got != tc.want {
				t.Fatalf("parseDSN(%q) = %q, want %q", tc.dsn, got, tc.want)
			}
		})
	}
}

func TestParseDSNRejectsOtherSchemes(t *testing.T) {
	if _, err := parseDSN("postgres://host/db"); err == nil {
		t.Fatalf("expected an error for a non-sqlite scheme")
	}
}
