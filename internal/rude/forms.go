package rude

import (
	"encrude/internal/ast"
	"encrude/internal/closure"
	"encrude/internal/diag"
)

// lambdaForms reports every outermost lambda-like construct of a changed
// member that was executing: its closures cannot be remapped.
func (a *analyzer) lambdaForms() {
	bt, at := a.m.Before, a.m.After
	for _, bm := range a.members {
		am, ok := a.m.Partner(bm)
		if !ok || ast.Equivalent(bt, bm, at, am) {
			continue
		}
		arg := at.DeclKindName(am)
		for _, f := range closure.Forms(at, am) {
			var code diag.Code
			switch f.Kind {
			case ast.KindLambda:
				code = diag.RudeLambdaExpression
			case ast.KindAnonymousMethod:
				code = diag.RudeAnonMethod
			case ast.KindQuery:
				code = diag.RudeQueryExpression
			default:
				continue
			}
			diag.ReportRude(a.decl, code, f.Anchor, arg).Emit()
		}
	}
}
