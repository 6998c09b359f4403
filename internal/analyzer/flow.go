package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/document"
	"github.com/retroenv/retrogolib/log"
)

const branchIntoInstruction = "branch into instruction detected"

// followExecutionFlow disassembles all queued addresses and queues the
// addresses that the instructions continue or branch to.
func (a *Analyzer) followExecutionFlow(ctx context.Context) error {
	for addr, ok := a.addressToDisassemble(); ok; addr, ok = a.addressToDisassemble() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("following execution flow: %w", err)
		}

		insn, ok := a.disassemble(addr)
		if !ok {
			continue
		}
		a.instructions++

		next := addr.Add(int64(insn.Length()))
		switch insn.Flow {
		case cell.FlowJump, cell.FlowReturn:
		case cell.FlowCall:
			a.addCallReturnToParse(next)
		case cell.FlowConditional:
			a.addAddressToParse(next, false)
			if !insn.HasTarget {
				// skip instruction
				a.addAddressToParse(next.Add(int64(insn.Length())), false)
			}
		default:
			a.addAddressToParse(next, false)
		}

		if insn.HasTarget {
			if err := a.processTarget(addr, insn); err != nil {
				return err
			}
		}
	}
	return nil
}

// disassemble decodes the instruction at the address and stores it in the
// document. It returns false if the address does not contain a new
// instruction.
func (a *Analyzer) disassemble(addr address.Address) (*cell.Instruction, bool) {
	if a.doc.ContainsCode(addr) {
		return nil, false
	}
	if _, ok := a.doc.Cell(addr); !ok {
		a.logger.Debug("Branch into cell", log.Stringer("address", addr))
		a.appendComment(addr, branchIntoInstruction)
		return nil, false
	}

	ar, ok := a.registry.Architecture(a.doc.ArchitectureTag(addr))
	if !ok {
		a.logger.Debug("No architecture for address", log.Stringer("address", addr))
		return nil, false
	}
	fileOffset, ok := a.doc.ConvertAddressToFileOffset(addr)
	if !ok {
		return nil, false
	}

	insn, err := ar.Disassemble(a.doc.Stream(), fileOffset, a.doc.Mode(addr))
	if err != nil {
		// consider an unknown instruction as start of data
		a.logger.Debug("Stopping code path", log.Stringer("address", addr), log.Err(err))
		return nil, false
	}

	if err := a.doc.SetCell(addr, insn, false); err != nil {
		if errors.Is(err, document.ErrForceRequired) {
			a.logger.Debug("Instruction overlaps existing instruction", log.Stringer("address", addr))
			a.appendComment(addr, branchIntoInstruction)
			return nil, false
		}
		a.logger.Warn("Storing instruction failed", log.Stringer("address", addr), log.Err(err))
		return nil, false
	}
	return insn, true
}

// processTarget records the address that the instruction references.
func (a *Analyzer) processTarget(addr address.Address, insn *cell.Instruction) error {
	target := address.New(addr.Base, insn.Target)
	if insn.Relative {
		target = addr.Add(insn.Displacement)
	}
	if _, ok := a.doc.MemoryArea(target); !ok {
		return nil
	}

	if err := a.doc.AddCrossReference(target, addr); err != nil {
		return err
	}

	switch insn.Flow {
	case cell.FlowJump, cell.FlowCall, cell.FlowConditional:
		a.branchDestinations.Add(target)
		if insn.Flow == cell.FlowCall {
			a.callDestinations.Add(target)
		}
		a.addAddressToParse(target, true)
	default:
		a.dataReferences.Add(target)
	}
	return nil
}

// addressToDisassemble returns the next address to disassemble. Addresses
// that follow a call have the lowest priority, to allow the code that the
// call returns to be reached by other branches first.
func (a *Analyzer) addressToDisassemble() (address.Address, bool) {
	if len(a.addressesToParse) > 0 {
		addr := a.addressesToParse[0]
		a.addressesToParse = a.addressesToParse[1:]
		return addr, true
	}

	for len(a.callReturnsToParse) > 0 {
		addr := a.callReturnsToParse[0]
		a.callReturnsToParse = a.callReturnsToParse[1:]

		// removed from the set if the address got parsed from the main queue
		if !a.callReturnsToParseAdded.Contains(addr) {
			continue
		}
		delete(a.callReturnsToParseAdded, addr)
		a.addressesToParseAdded.Add(addr)
		return addr, true
	}
	return address.Address{}, false
}

// addAddressToParse queues an address if it has not been queued yet.
func (a *Analyzer) addAddressToParse(addr address.Address, isBranchDestination bool) {
	if _, ok := a.doc.MemoryArea(addr); !ok {
		return
	}
	if a.addressesToParseAdded.Contains(addr) {
		return
	}
	a.addressesToParseAdded.Add(addr)
	delete(a.callReturnsToParseAdded, addr)

	if isBranchDestination {
		a.logger.Debug("Branch destination queued", log.Stringer("address", addr))
	}
	a.addressesToParse = append(a.addressesToParse, addr)
}

func (a *Analyzer) addCallReturnToParse(addr address.Address) {
	if _, ok := a.doc.MemoryArea(addr); !ok {
		return
	}
	if a.addressesToParseAdded.Contains(addr) || a.callReturnsToParseAdded.Contains(addr) {
		return
	}
	a.callReturnsToParseAdded.Add(addr)
	a.callReturnsToParse = append(a.callReturnsToParse, addr)
}

func (a *Analyzer) appendComment(addr address.Address, text string) {
	comment, _ := a.doc.Comment(addr)
	if comment != "" {
		comment += " "
	}
	if err := a.doc.SetComment(addr, comment+text); err != nil {
		a.logger.Error("Setting comment failed", log.Stringer("address", addr), log.Err(err))
	}
}
