package database

import (
	"testing"

	"github.com/Ananth-NQI/transitlink-ussd/internal/config"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Database
		want string
	}{
		{
			name: "tcp",
			cfg:  config.Database{User: "postgres", Password: "secret", Name: "transitlink", Host: "localhost", Port: "5432"},
			want: "host=localhost user=postgres password=secret dbname=transitlink port=5432 sslmode=disable",
		},
		{
			name: "cloud sql socket",
			cfg:  config.Database{User: "app", Password: "pw", Name: "transitlink", Host: "ignored", InstanceConnectionName: "proj:region:db"},
			want: "host=/cloudsql/proj:region:db user=app password=pw dbname=transitlink sslmode=disable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DSN(tt.cfg); got != tt.want {
				t.Fatalf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}
