// Package exitizer reports direct os.Exit calls in main functions of main packages.
// A main that exits directly skips deferred storage close and server shutdown.
package exitizer

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
)

// Analyzer
var Analyzer = &analysis.Analyzer{
	Name: "exitizer",
	Doc:  "check for os.Exit calls in main function",
	Run:  run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			funcDecl, ok := decl.(*ast.FuncDecl)
			if !ok || funcDecl.Recv != nil || funcDecl.Name.Name != "main" || funcDecl.Body == nil {
				continue
			}
			reportExitCalls(pass, funcDecl.Body)
		}
	}

	return nil, nil
}

func reportExitCalls(pass *analysis.Pass, body *ast.BlockStmt) {
	ast.Inspect(body, func(node ast.Node) bool {
		callExpr, ok := node.(*ast.CallExpr)
		if !ok {
			return true
		}

		selectorExpr, ok := callExpr.Fun.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		x, ok := selectorExpr.X.(*ast.Ident)
		if !ok {
			return true
		}

		if x.Name == "os" && selectorExpr.Sel.Name == "Exit" {
			pass.Reportf(callExpr.Pos(), "os.Exit call")
			return false
		}

		return true
	})
}
