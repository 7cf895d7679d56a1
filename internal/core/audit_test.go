package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JonMunkholm/importguess/internal/config"
)

func TestMemoryAuditList(t *testing.T) {
	ctx := context.Background()
	audit := NewMemoryAudit(3)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, action := range []AuditAction{ActionUpload, ActionPreview, ActionImport, ActionDryRun} {
		_ = audit.Record(ctx, AuditEntry{
			ID:        string(action),
			Action:    action,
			Model:     "test.partner",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	all, err := audit.List(ctx, AuditLogFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("len(List()) = %d, want 3 (oldest dropped)", len(all))
	}
	if all[0].Action != ActionDryRun || all[2].Action != ActionPreview {
		t.Errorf("List() order = %v, %v, %v; want newest first", all[0].Action, all[1].Action, all[2].Action)
	}

	imports, _ := audit.List(ctx, AuditLogFilter{Action: ActionImport})
	if len(imports) != 1 || imports[0].ID != "import" {
		t.Errorf("List(action=import) = %+v", imports)
	}

	page, _ := audit.List(ctx, AuditLogFilter{Limit: 1, Offset: 1})
	if len(page) != 1 || page[0].Action != ActionImport {
		t.Errorf("List(limit=1, offset=1) = %+v", page)
	}

	past, _ := audit.List(ctx, AuditLogFilter{Offset: 10})
	if len(past) != 0 {
		t.Errorf("List(offset past end) = %+v", past)
	}
}

type brokenAudit struct{}

func (brokenAudit) Record(context.Context, AuditEntry) error {
	return errors.New("audit table missing")
}

func (brokenAudit) List(context.Context, AuditLogFilter) ([]AuditEntry, error) {
	return nil, errors.New("audit table missing")
}

func TestServiceAuditTrail(t *testing.T) {
	ctx := ContextWithClient(context.Background(), "10.0.0.1", "curl/8.0")
	svc, _, _ := newTestService(t, config.ImportConfig{})

	id, err := svc.CreateSession(ctx, "test.partner", "data.csv", "text/csv", []byte(partnerCSV))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ParsePreview(ctx, id, PreviewOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Execute(ctx, id, partnerFields, partnerHeaders, false); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteSession(ctx, id); err != nil {
		t.Fatal(err)
	}

	entries, err := svc.GetAuditLog(ctx, AuditLogFilter{SessionID: id})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Fatalf("len(entries) = %d, want 4", len(entries))
	}

	var imported *AuditEntry
	for i := range entries {
		if entries[i].Action == ActionImport {
			imported = &entries[i]
		}
	}
	if imported == nil {
		t.Fatal("no import entry")
	}
	if imported.Rows != 2 || imported.IPAddress != "10.0.0.1" || imported.UserAgent != "curl/8.0" {
		t.Errorf("import entry = %+v", imported)
	}
}

func TestAuditFailureDoesNotFailImport(t *testing.T) {
	ctx := context.Background()
	svc := NewService(config.ImportConfig{}, Dependencies{Audit: brokenAudit{}})
	id := createCSV(t, svc, "test.partner", "name\nAlice\n")

	result, err := svc.Execute(ctx, id, []string{"name"}, nil, false)
	if err != nil || result.Rows != 1 {
		t.Errorf("Execute() = %+v, %v", result, err)
	}
}
