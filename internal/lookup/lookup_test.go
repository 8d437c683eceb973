package lookup

import (
	"errors"
	"reflect"
	"testing"

	"github.com/solatis/formforge/internal/types"
)

func TestStatic_Resolve(t *testing.T) {
	s := NewStatic(
		types.LookupTable{Name: "IFSC_MASTER", Columns: []string{"ifsc", "bank_name", "branch_name"}},
		types.LookupTable{Name: "PIN_MASTER", Columns: []string{"pincode", "city", "state"}},
	)

	t.Run("known table", func(t *testing.T) {
		table, err := s.Resolve("IFSC_MASTER")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if table.Name != "IFSC_MASTER" || len(table.Columns) != 3 {
			t.Errorf("Resolve() = %+v, want IFSC_MASTER with 3 columns", table)
		}
	})

	t.Run("unknown table", func(t *testing.T) {
		_, err := s.Resolve("GHOST_MASTER")
		if !errors.Is(err, types.ErrUnknownLookupTable) {
			t.Errorf("Resolve() error = %v, want ErrUnknownLookupTable", err)
		}
	})

	t.Run("empty resolver", func(t *testing.T) {
		empty := NewStatic()
		_, err := empty.Resolve("ANY_TABLE")
		if !errors.Is(err, types.ErrUnknownLookupTable) {
			t.Errorf("Resolve() error = %v, want ErrUnknownLookupTable", err)
		}
	})
}

func TestStatic_Names(t *testing.T) {
	s := NewStatic(
		types.LookupTable{Name: "PIN_MASTER"},
		types.LookupTable{Name: "IFSC_MASTER"},
	)
	want := []string{"IFSC_MASTER", "PIN_MASTER"}
	if got := s.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v (sorted)", got, want)
	}
}
