package cc11

import (
	"fmt"
	"math"
	"strings"
)

// irPrinter renders an IRModule as textual LLVM IR, following the same
// strings.Builder-accumulator shape as the teacher's goCodeEmitter in
// gen_go.go; unlike that emitter it keeps no running state beside the
// output builder.
type irPrinter struct {
	out *strings.Builder
}

// PrintModule renders m exactly per spec.md §6's header and §4.4.2's
// body layout: four-space-indented statements, labels starting a new
// unindented line.
func PrintModule(m *IRModule) string {
	p := &irPrinter{out: &strings.Builder{}}
	fmt.Fprintf(p.out, "; ModuleID = '%s'\n", m.Name)
	p.out.WriteString(`target datalayout = "e-m:e-i64:64-f80:128-n8:16:32:64-S128"` + "\n")
	p.out.WriteString(`target triple = "x86_64-unknown-linux-gnu"` + "\n\n")

	for _, st := range m.IdStructs {
		fmt.Fprintf(p.out, "%%%s = type %s\n", st.Name, st.Def.String())
	}
	if len(m.IdStructs) > 0 {
		p.out.WriteString("\n")
	}

	for _, gv := range m.Globals {
		p.printGlobal(gv)
	}
	if len(m.Globals) > 0 {
		p.out.WriteString("\n")
	}

	for _, fd := range m.FuncDecls {
		fmt.Fprintf(p.out, "declare %s @%s(%s)\n", fd.Sig.Ret.String(), fd.Name, paramList(fd.Sig))
	}
	if len(m.FuncDecls) > 0 {
		p.out.WriteString("\n")
	}

	for i, fn := range m.Functions {
		if i > 0 {
			p.out.WriteString("\n")
		}
		p.printFunction(fn)
	}
	return p.out.String()
}

func paramList(sig *IRFuncType) string {
	parts := make([]string, len(sig.Params))
	for i, p := range sig.Params {
		parts[i] = p.String()
	}
	s := strings.Join(parts, ", ")
	if sig.Varargs {
		if s != "" {
			s += ", "
		}
		s += "..."
	}
	return s
}

func (p *irPrinter) printGlobal(gv *IRGlobal) {
	linkage := gv.Linkage.String()
	if linkage != "" {
		linkage += " "
	}
	kind := "global"
	if gv.Constant {
		kind = "constant"
	}
	unnamed := ""
	if gv.UnnamedAddr {
		unnamed = "unnamed_addr "
	}
	init := "zeroinitializer"
	if gv.Init != nil {
		init = p.printExpr(gv.Init)
	} else if gv.Linkage == LinkExternal {
		fmt.Fprintf(p.out, "@%s = external %sglobal %s\n", gv.Name, unnamed, gv.Typ.String())
		return
	}
	fmt.Fprintf(p.out, "@%s = %s%s%s %s %s, align %d\n",
		gv.Name, linkage, unnamed, kind, gv.Typ.String(), init, gv.Align)
}

func (p *irPrinter) printFunction(fn *IRFunction) {
	linkage := fn.Linkage.String()
	if linkage != "" {
		linkage += " "
	}
	params := make([]string, len(fn.Sig.Params))
	for i, pt := range fn.Sig.Params {
		params[i] = pt.String() + " %" + paramRegName(i)
	}
	ps := strings.Join(params, ", ")
	if fn.Sig.Varargs {
		if ps != "" {
			ps += ", "
		}
		ps += "..."
	}
	fmt.Fprintf(p.out, "define %s%s @%s(%s) {\n", linkage, fn.Sig.Ret.String(), fn.Name, ps)
	for _, s := range fn.Prefix {
		p.printStmt(s)
	}
	for _, s := range fn.Body {
		p.printStmt(s)
	}
	p.out.WriteString("}\n")
}

func (p *irPrinter) printStmt(s IRStmt) {
	switch ss := s.(type) {
	case *IRLabelStmt:
		fmt.Fprintf(p.out, "%s:\n", ss.Name)
	case *IRRetStmt:
		if ss.Value == nil {
			p.out.WriteString("    ret void\n")
		} else {
			fmt.Fprintf(p.out, "    ret %s %s\n", ss.Value.Type().String(), p.printExpr(ss.Value))
		}
	case *IRBrStmt:
		if ss.Cond == nil {
			fmt.Fprintf(p.out, "    br label %%%s\n", ss.Then)
		} else {
			fmt.Fprintf(p.out, "    br i1 %s, label %%%s, label %%%s\n", p.printExpr(ss.Cond), ss.Then, ss.Else)
		}
	case *IRSwitchStmt:
		fmt.Fprintf(p.out, "    switch i64 %s, label %%%s [\n", p.printExpr(ss.Tag), ss.Default)
		for _, c := range ss.Cases {
			fmt.Fprintf(p.out, "      i64 %d, label %%%s\n", c.Value, c.Label)
		}
		p.out.WriteString("    ]\n")
	case *IRAssignStmt:
		fmt.Fprintf(p.out, "    %%%s = %s\n", ss.Dest, p.printInstr(ss.Src))
	case *IRStoreStmt:
		fmt.Fprintf(p.out, "    store %s %s, %s* %s\n", ss.Typ.String(), p.printExpr(ss.Val), ss.Typ.String(), p.printExpr(ss.Ptr))
	}
}

// printExpr renders a value reference: a bare operand usable inside
// another instruction's operand list.
func (p *irPrinter) printExpr(e IRExpr) string {
	switch x := e.(type) {
	case *IRVar:
		return x.String()
	case *IRConst:
		return p.printConst(x)
	default:
		// Instruction-shaped IRExprs reached directly (not through an
		// IRAssignStmt) print inline in their instruction form, without
		// parentheses. irgen reaches this for member, element and
		// initializer addresses, which it does not bind to a temp.
		return p.printInstr(e)
	}
}

func (p *irPrinter) printConst(c *IRConst) string {
	switch c.Kind {
	case IRConstInt, IRConstBool:
		return itoa64(c.IntVal)
	case IRConstFloat:
		return formatFloatHex(c.FltVal)
	case IRConstNull:
		return "null"
	case IRConstZero:
		return "zeroinitializer"
	case IRConstUndef:
		return "undef"
	case IRConstStr:
		return fmt.Sprintf("c%q", c.StrVal+"\x00")
	case IRConstStruct:
		parts := make([]string, len(c.Members))
		for i, m := range c.Members {
			parts[i] = m.Type().String() + " " + p.printExpr(m)
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case IRConstArr:
		parts := make([]string, len(c.Members))
		for i, m := range c.Members {
			parts[i] = m.Type().String() + " " + p.printExpr(m)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "zeroinitializer"
	}
}

// formatFloatHex renders an IEEE-754 double as LLVM's 0x-hex bit
// pattern, per spec.md §4.4.2's "Printing" rule.
func formatFloatHex(f float64) string {
	bits := math.Float64bits(f)
	return fmt.Sprintf("0x%016X", bits)
}

// printInstr renders the right-hand side of an "%N = ..." assignment.
func (p *irPrinter) printInstr(e IRExpr) string {
	switch x := e.(type) {
	case *IRBinOp:
		return fmt.Sprintf("%s %s %s, %s", x.Op, x.Typ.String(), p.printExpr(x.L), p.printExpr(x.R))
	case *IRAlloca:
		if x.NElem != nil {
			return fmt.Sprintf("alloca %s, %s %s, align %d", x.Elem.String(), x.NElem.Type().String(), p.printExpr(x.NElem), x.Align)
		}
		return fmt.Sprintf("alloca %s, align %d", x.Elem.String(), x.Align)
	case *IRLoad:
		return fmt.Sprintf("load %s, %s* %s", x.Typ.String(), x.Typ.String(), p.printExpr(x.Ptr))
	case *IRGetElementPtr:
		parts := make([]string, len(x.Idxs))
		for i, idx := range x.Idxs {
			parts[i] = idx.Type().String() + " " + p.printExpr(idx)
		}
		return fmt.Sprintf("getelementptr %s, %s* %s, %s", x.BaseTyp.String(), x.BaseTyp.String(), p.printExpr(x.Base), strings.Join(parts, ", "))
	case *IRConvert:
		return fmt.Sprintf("%s %s %s to %s", x.Kind, x.Src.Type().String(), p.printExpr(x.Src), x.Dst.String())
	case *IRICmp:
		return fmt.Sprintf("icmp %s %s %s, %s", x.Cond, x.L.Type().String(), p.printExpr(x.L), p.printExpr(x.R))
	case *IRFCmp:
		return fmt.Sprintf("fcmp %s %s %s, %s", x.Cond, x.L.Type().String(), p.printExpr(x.L), p.printExpr(x.R))
	case *IRPhi:
		parts := make([]string, len(x.Arms))
		for i, a := range x.Arms {
			parts[i] = fmt.Sprintf("[ %s, %%%s ]", p.printExpr(a.Value), a.Label)
		}
		return fmt.Sprintf("phi %s %s", x.Typ.String(), strings.Join(parts, ", "))
	case *IRSelect:
		return fmt.Sprintf("select i1 %s, %s %s, %s %s", p.printExpr(x.Cond), x.Then.Type().String(), p.printExpr(x.Then), x.Else.Type().String(), p.printExpr(x.Else))
	case *IRCall:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = a.Type().String() + " " + p.printExpr(a)
		}
		return fmt.Sprintf("call %s %s(%s)", x.Sig.Ret.String(), p.printExpr(x.Fn), strings.Join(args, ", "))
	case *IRVaArg:
		return fmt.Sprintf("va_arg %s* %s, %s", x.List.Type().String(), p.printExpr(x.List), x.Typ.String())
	default:
		return p.printExpr(e)
	}
}
