package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/localizy/localizy-backend/pkg/migrate"
)

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestValidationsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_validations.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no validations migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS validations",
		"FOREIGN KEY (address_id) REFERENCES addresses(id) ON DELETE SET NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_validations_request_id",
		"CHECK (attachments_count >= 0)",
		"DROP TABLE IF EXISTS validations",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestTranslationsMigrationCascades(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_projects.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no projects migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}

	if !strings.Contains(string(data), "REFERENCES projects(id) ON DELETE CASCADE") {
		t.Error("translations must cascade on project delete")
	}
}
