package label

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLabel_DisplayName(t *testing.T) {
	lbl := New("reset", Code)
	assert.Equal(t, "reset", lbl.DisplayName())

	lbl = lbl.IncrementVersion()
	assert.Equal(t, uint32(1), lbl.Version)
	assert.Equal(t, "reset_1", lbl.DisplayName())

	lbl = lbl.IncrementVersion()
	assert.Equal(t, "reset_2", lbl.String())
}

func TestLabel_Flags(t *testing.T) {
	tests := []struct {
		name  string
		typ   Type
		kind  Type
		auto  bool
		iface bool
	}{
		{name: "plain code", typ: Code, kind: Code},
		{name: "auto data", typ: Data | AutoGenerated, kind: Data, auto: true},
		{name: "exported", typ: Code | Exported, kind: Code, iface: true},
		{name: "imported", typ: Code | Imported, kind: Code, iface: true},
		{name: "unknown", typ: Unknown, kind: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lbl := New("x", tt.typ)
			assert.Equal(t, tt.kind, lbl.Kind())
			assert.Equal(t, tt.auto, lbl.IsAutoGenerated())
			assert.Equal(t, tt.iface, lbl.IsExportedOrImported())
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "sub_8000", Normalize("sub_8000"))
	assert.Equal(t, "kernel32_dll_ExitProcess", Normalize("kernel32.dll!ExitProcess"))
}

func TestLabel_IsEmpty(t *testing.T) {
	assert.True(t, Label{}.IsEmpty())
	assert.False(t, New("a", Data).IsEmpty())
}
