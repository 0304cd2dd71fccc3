package ir

import (
	"testing"

	"github.com/gofirrtl/resetinfer/pkg/util"
)

func width(w uint) util.Option[uint] { return util.Some(w) }

func Test_IsResetType_Abstract(t *testing.T) {
	if !(ResetType{}).IsResetType() {
		t.Fatal("abstract reset must report IsResetType")
	}
}

func Test_IsResetType_Async(t *testing.T) {
	if !(AsyncResetType{}).IsResetType() {
		t.Fatal("asyncreset must report IsResetType")
	}
}

func Test_IsResetType_UInt1(t *testing.T) {
	if !(UIntType{Width: width(1)}).IsResetType() {
		t.Fatal("uint<1> must report IsResetType")
	}
}

func Test_IsResetType_UInt8_NotReset(t *testing.T) {
	if (UIntType{Width: width(8)}).IsResetType() {
		t.Fatal("uint<8> must not report IsResetType")
	}
}

func Test_IsResetType_UIntUnknownWidth_NotReset(t *testing.T) {
	if (UIntType{}).IsResetType() {
		t.Fatal("uint of unknown width must not report IsResetType")
	}
}

func bundleAB() BundleType {
	return BundleType{Elements: []BundleElement{
		{Name: "a", Type: ResetType{}},
		{Name: "b", Type: ResetType{}},
	}}
}

func Test_Footprint_Bundle(t *testing.T) {
	if got := Footprint(bundleAB()); got != 3 {
		t.Fatalf("expected footprint 3 for a 2-field bundle, got %d", got)
	}
}

func Test_Footprint_Vector(t *testing.T) {
	v := VectorType{Element: ResetType{}, Count: 4}
	if got := Footprint(v); got != 2 {
		t.Fatalf("expected footprint 2 (self + one collapsed element slot), got %d", got)
	}
}

func Test_FieldIDOfBundleField(t *testing.T) {
	b := bundleAB()

	if off, _, ok := FieldIDOfBundleField(b, "a"); !ok || off != 1 {
		t.Fatalf("field 'a': got offset %d ok %v, want 1 true", off, ok)
	}

	if off, _, ok := FieldIDOfBundleField(b, "b"); !ok || off != 2 {
		t.Fatalf("field 'b': got offset %d ok %v, want 2 true", off, ok)
	}
}

func Test_FieldIDOfVectorElement_AllElementsCollapse(t *testing.T) {
	// Spec §4.1: vectors collapse every element onto field-ID 1, regardless
	// of which element is actually addressed.
	if got := FieldIDOfVectorElement(); got != 1 {
		t.Fatalf("expected field-id 1, got %d", got)
	}
}

func Test_UpdateType_BundleLeaf(t *testing.T) {
	b := bundleAB()

	updated := UpdateType(b, 1, AsyncResetType{})

	got := updated.(BundleType)
	if !got.Elements[0].Type.Equal(AsyncResetType{}) {
		t.Fatalf("field 'a' should now be asyncreset, got %s", got.Elements[0].Type)
	}
	if !got.Elements[1].Type.Equal(ResetType{}) {
		t.Fatalf("field 'b' should be untouched, got %s", got.Elements[1].Type)
	}
}

func Test_UpdateType_VectorLeaf_AffectsAllElements(t *testing.T) {
	v := VectorType{Element: ResetType{}, Count: 4}

	updated := UpdateType(v, 1, AsyncResetType{})

	got := updated.(VectorType)
	if !got.Element.Equal(AsyncResetType{}) {
		t.Fatalf("vector element type should now be asyncreset, got %s", got.Element)
	}
	if got.Count != 4 {
		t.Fatalf("count should be unchanged, got %d", got.Count)
	}
}

func Test_LeafAt_Bundle(t *testing.T) {
	b := bundleAB()

	if got := LeafAt(b, 2); !got.Equal(ResetType{}) {
		t.Fatalf("expected leaf 'b' to be reset, got %s", got)
	}
}
