package store

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExportImport(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			want := sampleCategories()

			var buf bytes.Buffer
			if err := Export(&buf, want, f); err != nil {
				t.Fatalf("Export: %v", err)
			}
			if !strings.Contains(buf.String(), "total_hours") {
				t.Fatalf("export missing budget header:\n%s", buf.String())
			}

			got, err := Import(&buf, f)
			if err != nil {
				t.Fatalf("Import: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImportBareSnapshot(t *testing.T) {
	got, err := Import(strings.NewReader(`[{"id":"x","name":"Read","hours":3,"colorId":"green"}]`), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Read" {
		t.Fatalf("got %+v", got)
	}

	got, err = Import(strings.NewReader("- id: y\n  name: Walk\n  hours: 2\n  colorId: blue\n"), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ColorID != "blue" {
		t.Fatalf("got %+v", got)
	}
}

func TestImportRejectsForeignBudget(t *testing.T) {
	_, err := Import(strings.NewReader(`{"total_hours": 24, "categories": []}`), FormatJSON)
	if err == nil {
		t.Fatal("expected budget mismatch error")
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("YML"); err != nil || f != FormatYAML {
		t.Fatalf("ParseFormat(YML) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for xml")
	}
	if FormatFromPath("week.yaml") != FormatYAML || FormatFromPath("week.json") != FormatJSON {
		t.Fatal("FormatFromPath guessed wrong")
	}
}
