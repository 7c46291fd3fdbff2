package storage

import (
	"context"
	"strings"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/Ananth-NQI/transitlink-ussd/internal/models"
)

// dryRunStore builds statements without a reachable database
func dryRunStore(t *testing.T) *DatabaseStore {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=transitlink dbname=transitlink sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return NewDatabaseStore(db)
}

func TestSessionReplaceColumnsCoverModel(t *testing.T) {
	s, err := schema.Parse(&models.USSDSession{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("schema.Parse: %v", err)
	}

	replaced := make(map[string]bool, len(sessionReplaceColumns))
	for _, col := range sessionReplaceColumns {
		replaced[col] = true
	}
	for _, field := range s.Fields {
		if field.DBName == "" || field.PrimaryKey || field.DBName == "created_at" {
			continue
		}
		if !replaced[field.DBName] {
			t.Errorf("column %q is not replaced on session upsert", field.DBName)
		}
		delete(replaced, field.DBName)
	}
	for col := range replaced {
		t.Errorf("replaced column %q does not exist on the session model", col)
	}
}

func TestUpsertSessionStatement(t *testing.T) {
	store := dryRunStore(t)

	tx := store.upsertSession(context.Background(), &models.USSDSession{SessionID: "s1", PhoneNumber: "+254700"})
	if tx.Error != nil {
		t.Fatalf("upsertSession: %v", tx.Error)
	}
	sql := tx.Statement.SQL.String()

	if !strings.Contains(sql, `ON CONFLICT ("session_id") DO UPDATE SET`) {
		t.Fatalf("statement has no session_id upsert: %s", sql)
	}
	for _, col := range sessionReplaceColumns {
		if want := `"` + col + `"="excluded"."` + col + `"`; !strings.Contains(sql, want) {
			t.Errorf("statement does not replace %s: %s", col, sql)
		}
	}
	if strings.Contains(sql, `"created_at"="excluded"."created_at"`) {
		t.Errorf("created_at must keep its first value: %s", sql)
	}

	// a nil company is written as NULL so a depth-0 reset clears it
	var sawNilCompany bool
	for _, v := range tx.Statement.Vars {
		if p, ok := v.(*uint); ok && p == nil {
			sawNilCompany = true
		}
	}
	if !sawNilCompany {
		t.Errorf("nil company_id not bound in %v", tx.Statement.Vars)
	}
}
