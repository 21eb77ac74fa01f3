// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
	"XLEN":   "32",
}

// Assembler is a single pass macro assembler for RV32IM.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]uint32   // Map of labels to image offsets.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap maps register names, numeric and ABI, to register indexes.
var regMap = func() map[string]uint32 {
	regs := map[string]uint32{"fp": 8}
	for n := range uint32(REG_COUNT) {
		regs[fmt.Sprintf("x%d", n)] = n
		regs[RegisterName(n)] = n
	}
	return regs
}()

// register returns the index of a named register.
func (asm *Assembler) register(word string) (reg uint32, err error) {
	reg, ok := regMap[word]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int32, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) > 0 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	if equate, ok := asm.Equate[word]; ok && equate != word {
		word = equate
	}
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 > 0xffffffff || v64 < -int64(0x80000000) {
		err = ErrImmediateRange
		return
	}

	value = int32(uint32(v64))
	if invert {
		value = ^value
	}

	return
}

// immediate returns a value, checked against a signed bit width.
func (asm *Assembler) immediate(word string, width int) (value int32, err error) {
	value, err = asm.valueOf(word)
	if err != nil {
		return
	}

	limit := int32(1) << (width - 1)
	if value < -limit || value >= limit {
		err = ErrImmediateRange
	}
	return
}

// memOperand matches OFFSET(REG) memory operands.
var memOperand = regexp.MustCompile(`^(.*)\(([a-z0-9]+)\)$`)

// address parses a OFFSET(REG) operand.
func (asm *Assembler) address(word string) (reg uint32, offset int32, err error) {
	match := memOperand.FindStringSubmatch(word)
	if match == nil {
		err = ErrOffsetInvalid
		return
	}

	reg, err = asm.register(match[2])
	if err != nil {
		return
	}

	if len(match[1]) != 0 {
		offset, err = asm.immediate(match[1], 12)
	}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 int32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(int64(value32))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int32(uint32(st_int64))
	return
}

var (
	reCharacter = regexp.MustCompile(`'\\?[^']'`)
	reParen     = regexp.MustCompile(`\$\(([^()]|\([^()]*\))*\)`)
)

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	line = strings.NewReplacer(",", " ", "\t", " ").Replace(line)
	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint32, 16)
		}
		asm.Label[label] = asm.currentOffset()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", fmt.Sprintf("%v_%v_", name, lineno))
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentOffset gets the image offset of the next instruction.
func (asm *Assembler) currentOffset() uint32 {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Offset + 4*uint32(len(last.Codes))
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		if n := strings.IndexAny(text, ";#"); n >= 0 {
			text = text[:n]
		}
		line = strings.TrimSpace(text)
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels, relative to the linked opcode.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		label := op.LinkLabel
		target, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}
		delta := int32(target - op.Offset)

		switch len(op.Codes) {
		case 1:
			// Branch or jump.
			width := 13
			if op.Codes[0].Opcode() == OPCODE_JAL {
				width = 21
			}
			limit := int32(1) << (width - 1)
			if delta < -limit || delta >= limit {
				err = ErrOffsetInvalid
				return
			}
			op.Codes[0] = op.Codes[0].WithImm(delta)
		case 2:
			// auipc + addi pair.
			hi, lo := splitImm(delta)
			op.Codes[0] = op.Codes[0].WithImm(hi)
			op.Codes[1] = op.Codes[1].WithImm(lo)
		default:
			log.Fatalf("Unable to link label '%s' to line %d: %v", label, op.LineNo, op.Words)
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// splitImm splits a value into a U-type upper part and an I-type
// lower part, such that hi + lo == value.
func splitImm(value int32) (hi, lo int32) {
	hi = int32(uint32(value+0x800) & 0xffff_f000)
	lo = value - hi
	return
}

// pseudoMap rewrites pseudo instructions, keyed by mnemonic and operand count.
var pseudoMap = map[string](func(args []string) []string){
	"nop/0":    func(a []string) []string { return []string{"addi", "zero", "zero", "0"} },
	"mv/2":     func(a []string) []string { return []string{"addi", a[0], a[1], "0"} },
	"not/2":    func(a []string) []string { return []string{"xori", a[0], a[1], "-1"} },
	"neg/2":    func(a []string) []string { return []string{"sub", a[0], "zero", a[1]} },
	"seqz/2":   func(a []string) []string { return []string{"sltiu", a[0], a[1], "1"} },
	"snez/2":   func(a []string) []string { return []string{"sltu", a[0], "zero", a[1]} },
	"j/1":      func(a []string) []string { return []string{"jal", "zero", a[0]} },
	"jal/1":    func(a []string) []string { return []string{"jal", "ra", a[0]} },
	"call/1":   func(a []string) []string { return []string{"jal", "ra", a[0]} },
	"jr/1":     func(a []string) []string { return []string{"jalr", "zero", "0(" + a[0] + ")"} },
	"jalr/1":   func(a []string) []string { return []string{"jalr", "ra", "0(" + a[0] + ")"} },
	"ret/0":    func(a []string) []string { return []string{"jalr", "zero", "0(ra)"} },
	"beqz/2":   func(a []string) []string { return []string{"beq", a[0], "zero", a[1]} },
	"bnez/2":   func(a []string) []string { return []string{"bne", a[0], "zero", a[1]} },
	"bgt/3":    func(a []string) []string { return []string{"blt", a[1], a[0], a[2]} },
	"ble/3":    func(a []string) []string { return []string{"bge", a[1], a[0], a[2]} },
	"bgtu/3":   func(a []string) []string { return []string{"bltu", a[1], a[0], a[2]} },
	"bleu/3":   func(a []string) []string { return []string{"bgeu", a[1], a[0], a[2]} },
	"ecall/0":  func(a []string) []string { return []string{".word", "0x00000073"} },
	"ebreak/0": func(a []string) []string { return []string{".word", "0x00100073"} },
}

// wantArgs checks the operand count.
func wantArgs(args []string, count int) (err error) {
	switch {
	case len(args) < count:
		err = ErrOpcodeMissing
	case len(args) > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// target resolves a branch or jump target, either a numeric offset or
// a label to link.
func (asm *Assembler) target(word string, width int) (offset int32, label string, err error) {
	offset, err = asm.immediate(word, width)
	if err == nil {
		if offset&1 != 0 {
			err = ErrOffsetInvalid
		}
		return
	}

	if _, is_number := err.(ErrParseNumber); !is_number {
		return
	}

	offset = 0
	label = word
	err = nil
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Offset: asm.currentOffset(), Words: initial_words, Codes: codes, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	pseudo, ok := pseudoMap[fmt.Sprintf("%v/%d", words[0], len(words)-1)]
	if ok {
		words = pseudo(words[1:])
	}

	mnemonic := words[0]
	args := words[1:]

	switch mnemonic {
	case ".word":
		if len(args) == 0 {
			err = ErrOpcodeMissing
			return
		}
		for _, arg := range args {
			var value int32
			value, err = asm.valueOf(arg)
			if err != nil {
				return
			}
			codes = append(codes, Code(uint32(value)))
		}
		return
	case "li":
		err = wantArgs(args, 2)
		if err != nil {
			return
		}
		var rd uint32
		var value int32
		rd, err = asm.register(args[0])
		if err != nil {
			return
		}
		value, err = asm.valueOf(args[1])
		if err != nil {
			return
		}
		hi, lo := splitImm(value)
		if hi == 0 {
			codes = append(codes, MakeCodeI(OP_ADDI, rd, REG_ZERO, lo))
			return
		}
		codes = append(codes, MakeCodeU(OP_LUI, rd, hi))
		if lo != 0 {
			codes = append(codes, MakeCodeI(OP_ADDI, rd, rd, lo))
		}
		return
	case "la":
		err = wantArgs(args, 2)
		if err != nil {
			return
		}
		var rd uint32
		rd, err = asm.register(args[0])
		if err != nil {
			return
		}
		codes = append(codes,
			MakeCodeU(OP_AUIPC, rd, 0),
			MakeCodeI(OP_ADDI, rd, rd, 0),
		)
		label = args[1]
		return
	}

	op, ok := LookupOp(mnemonic)
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	var rd, rs1, rs2 uint32
	var imm int32

	switch op.Format() {
	case FORMAT_R:
		err = wantArgs(args, 3)
		if err != nil {
			return
		}
		rd, err = asm.register(args[0])
		if err == nil {
			rs1, err = asm.register(args[1])
		}
		if err == nil {
			rs2, err = asm.register(args[2])
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeR(op, rd, rs1, rs2))
	case FORMAT_I:
		switch {
		case op == OP_FENCE:
			// Ordering operands are accepted, and ignored.
			codes = append(codes, MakeCodeFence())
		case op.Opcode() == OPCODE_OP_IMM:
			err = wantArgs(args, 3)
			if err != nil {
				return
			}
			rd, err = asm.register(args[0])
			if err == nil {
				rs1, err = asm.register(args[1])
			}
			if err != nil {
				return
			}
			if op.IsShift() {
				imm, err = asm.valueOf(args[2])
				if err == nil && (imm < 0 || imm > 31) {
					err = ErrImmediateRange
				}
			} else {
				imm, err = asm.immediate(args[2], 12)
			}
			if err != nil {
				return
			}
			codes = append(codes, MakeCodeI(op, rd, rs1, imm))
		default:
			// Loads and jalr: rd, offset(rs1)
			err = wantArgs(args, 2)
			if err != nil {
				return
			}
			rd, err = asm.register(args[0])
			if err == nil {
				rs1, imm, err = asm.address(args[1])
			}
			if err != nil {
				return
			}
			codes = append(codes, MakeCodeI(op, rd, rs1, imm))
		}
	case FORMAT_S:
		err = wantArgs(args, 2)
		if err != nil {
			return
		}
		rs2, err = asm.register(args[0])
		if err == nil {
			rs1, imm, err = asm.address(args[1])
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeS(op, rs1, rs2, imm))
	case FORMAT_B:
		err = wantArgs(args, 3)
		if err != nil {
			return
		}
		rs1, err = asm.register(args[0])
		if err == nil {
			rs2, err = asm.register(args[1])
		}
		if err == nil {
			imm, label, err = asm.target(args[2], 13)
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeB(op, rs1, rs2, imm))
	case FORMAT_U:
		err = wantArgs(args, 2)
		if err != nil {
			return
		}
		rd, err = asm.register(args[0])
		if err == nil {
			imm, err = asm.valueOf(args[1])
		}
		if err == nil && (imm < -(1<<19) || imm >= (1<<20)) {
			err = ErrImmediateRange
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeU(op, rd, imm<<12))
	case FORMAT_J:
		err = wantArgs(args, 2)
		if err != nil {
			return
		}
		rd, err = asm.register(args[0])
		if err == nil {
			imm, label, err = asm.target(args[1], 21)
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeJ(op, rd, imm))
	default:
		err = ErrInstructionInvalid
	}

	return
}
