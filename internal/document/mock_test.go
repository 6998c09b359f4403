package document

import (
	"fmt"
	"testing"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/arch"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/database/memory"
	"github.com/retroenv/retrodoc/internal/label"
	"github.com/retroenv/retrodoc/internal/notify"
	"github.com/retroenv/retrodoc/internal/options"
	"github.com/retroenv/retrodoc/internal/stream"
	"github.com/retroenv/retrodoc/internal/tag"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

var mockTag = tag.Make("mock")

const testStart = 0x1000

// mockArch decodes every byte as a single byte instruction, 0xff is an
// unknown opcode.
type mockArch struct{}

func (mockArch) Tag() tag.Tag                        { return mockTag }
func (mockArch) Name() string                        { return "mock" }
func (mockArch) DefaultMode(_ address.Address) uint8 { return 7 }

func (mockArch) Disassemble(s stream.BinaryStream, fileOffset uint64, mode uint8) (*cell.Instruction, error) {
	buf := make([]byte, 1)
	n, err := s.Read(fileOffset, buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", arch.ErrTruncated, err)
	}
	if n == 0 {
		return nil, arch.ErrTruncated
	}
	if buf[0] == 0xff {
		return nil, arch.ErrUnknownOpcode
	}

	insn := cell.NewInstruction(mockTag, mode, 1)
	insn.Name = "op"
	insn.Opcode = buf
	return insn, nil
}

type labelEvent struct {
	addr    address.Address
	label   label.Label
	removed bool
}

// recorder records all events in the order of delivery.
type recorder struct {
	notify.Nop

	events    []string
	addresses []address.List
	labels    []labelEvent
	tasks     []string
}

func (r *recorder) OnQuit() {
	r.events = append(r.events, "quit")
}

func (r *recorder) OnDocumentUpdated() {
	r.events = append(r.events, "document")
}

func (r *recorder) OnMemoryAreaUpdated(_ *address.MemoryArea, _ bool) {
	r.events = append(r.events, "area")
}

func (r *recorder) OnAddressUpdated(addresses address.List) {
	r.events = append(r.events, "address")
	r.addresses = append(r.addresses, addresses)
}

func (r *recorder) OnLabelUpdated(addr address.Address, lbl label.Label, removed bool) {
	r.events = append(r.events, "label")
	r.labels = append(r.labels, labelEvent{addr: addr, label: lbl, removed: removed})
}

func (r *recorder) OnTaskUpdated(task string, status notify.TaskStatus) {
	r.events = append(r.events, "task")
	r.tasks = append(r.tasks, task+" "+status.String())
}

func (r *recorder) reset() {
	r.events = nil
	r.addresses = nil
	r.labels = nil
	r.tasks = nil
}

func addr(offset uint64) address.Address {
	return address.New(0, offset)
}

// newTestDocument returns a document backed by an in-memory database with
// a single memory area starting at testStart that maps all of data.
func newTestDocument(t *testing.T, data []byte, opts options.Document) (*Document, *recorder) {
	t.Helper()

	registry, err := arch.NewRegistry(mockArch{})
	assert.NoError(t, err)

	doc := New(log.NewTestLogger(t), registry, stream.New(data, stream.LittleEndian), opts)
	assert.NoError(t, doc.Use(memory.New()))
	assert.NoError(t, doc.AddMemoryArea(&address.MemoryArea{
		Name:            "rom",
		Start:           testStart,
		Size:            uint64(len(data)),
		FileSize:        uint64(len(data)),
		ArchitectureTag: mockTag,
	}))

	rec := &recorder{}
	doc.Subscribe(notify.All, rec)
	return doc, rec
}
