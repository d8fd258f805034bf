package main

import "testing"

func TestDSNWithPassword(t *testing.T) {
	for _, tc := range []struct {
		name     string
		dsn      string
		password string
		want     string
	}{
		{
			name:     "keyword form",
			dsn:      "host=localhost dbname=postgres",
			password: "hunter2",
			want:     "host=localhost dbname=postgres password='hunter2'",
		},
		{
			name:     "url form converts to keywords",
			dsn:      "postgres://alice@db.example.com:5432/postgres",
			password: "hunter2",
			want:     "dbname=postgres host=db.example.com port=5432 user=alice password='hunter2'",
		},
		{
			name:     "quotes and backslashes escaped",
			dsn:      "host=localhost",
			password: `it's a \pass`,
			want:     `host=localhost password='it\'s a \\pass'`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := dsnWithPassword(tc.dsn, tc.password)
			if err != nil {
				t.Fatalf("dsnWithPassword: %v", err)
			}
			if got != tc.want {
				t.Errorf("dsnWithPassword(%q) = %q, want %q", tc.dsn, got, tc.want)
			}
		})
	}
}

func TestDSNWithPassword_BadURL(t *testing.T) {
	if _, err := dsnWithPassword("postgres://[::1", "pw"); err == nil {
		t.Fatal("expected error for malformed url")
	}
}
