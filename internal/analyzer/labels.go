package analyzer

import (
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/label"
	"github.com/retroenv/retrogolib/set"
)

const (
	dataNaming     = "_data_%04x"
	funcNaming     = "_func_%04x"
	labelNaming    = "_label_%04x"
	variableNaming = "_var_%04x"
)

// processBranchDestinations names all branch destinations that do not have
// a label yet.
func (a *Analyzer) processBranchDestinations() error {
	for _, addr := range sorted(a.branchDestinations) {
		naming := labelNaming
		if a.callDestinations.Contains(addr) {
			naming = funcNaming
		}
		if err := a.addAutoLabel(addr, naming, label.Code); err != nil {
			return err
		}
	}
	return nil
}

// processDataReferences names all referenced data addresses. Addresses
// without file content are variables.
func (a *Analyzer) processDataReferences() error {
	for _, addr := range sorted(a.dataReferences) {
		naming := dataNaming
		if _, ok := a.doc.ConvertAddressToFileOffset(addr); !ok {
			naming = variableNaming
		}
		if err := a.addAutoLabel(addr, naming, label.Data); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) addAutoLabel(addr address.Address, naming string, kind label.Type) error {
	if _, ok := a.doc.Label(addr); ok {
		return nil
	}

	name := fmt.Sprintf(naming, addr.Offset)
	if err := a.doc.AddLabel(addr, label.New(name, kind|label.AutoGenerated), false); err != nil {
		return fmt.Errorf("adding label '%s': %w", name, err)
	}
	return nil
}

func sorted(addresses set.Set[address.Address]) address.List {
	list := make(address.List, 0, len(addresses))
	for addr := range addresses {
		list = append(list, addr)
	}
	list.Sort()
	return list
}
