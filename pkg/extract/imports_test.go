package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importsOf(text string) []Import {
	return ExtractImports(JoinStatements(NewSource(text)))
}

func TestExtractImportKinds(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		target string
		kind   ImportKind
		names  []string
	}{
		{"default", `import React from 'react';`, "react", ImportDefault, []string{"React"}},
		{"named", `import { useState, useEffect as effect } from "react";`, "react", ImportNamed, []string{"useState", "useEffect"}},
		{"default and named", `import React, { Component } from 'react';`, "react", ImportDefault, []string{"React", "Component"}},
		{"namespace", `import * as path from 'path';`, "path", ImportNamespace, []string{"path"}},
		{"side effect", `import './styles.css';`, "./styles.css", ImportSideEffect, nil},
		{"dynamic", `const Page = lazy(() => import('./pages/Home'));`, "./pages/Home", ImportDynamic, nil},
		{"require", `const fs = require('fs');`, "fs", ImportRequire, []string{"fs"}},
		{"require destructured", `const { join } = require('path');`, "path", ImportRequire, []string{"join"}},
		{"import equals require", `import lodash = require('lodash');`, "lodash", ImportRequire, []string{"lodash"}},
		{"type only", `import type { Props } from './types';`, "./types", ImportTypeOnly, []string{"Props"}},
		{"inline type name", `import { type Props, render } from './ui';`, "./ui", ImportNamed, []string{"Props", "render"}},
		{"re-export all", `export * from './utils';`, "./utils", ImportReExport, nil},
		{"re-export named", `export { Button as default } from './Button';`, "./Button", ImportReExport, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imports := importsOf(tt.code)
			require.Len(t, imports, 1)
			assert.Equal(t, tt.target, imports[0].Specifier)
			assert.Equal(t, tt.kind, imports[0].Kind)
			assert.Equal(t, tt.names, imports[0].Names)
			assert.Equal(t, 1, imports[0].Line)
		})
	}
}

func TestExtractImportsIgnoresCommentsAndStrings(t *testing.T) {
	imports := importsOf(`// import a from 'commented'
/*
import b from 'blocked'
*/
const text = "import c from 'quoted'";
import d from 'real';
`)
	require.Len(t, imports, 1)
	assert.Equal(t, "real", imports[0].Specifier)
	assert.Equal(t, 6, imports[0].Line)
}

func TestExtractImportsMultiLineNamed(t *testing.T) {
	imports := importsOf(`import {
  Alpha,
  Beta as B,
  type Gamma,
} from '@components/Greek'
`)
	require.Len(t, imports, 1)
	assert.Equal(t, "@components/Greek", imports[0].Specifier)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, imports[0].Names)
}

func TestExtractImportsKeepsOrder(t *testing.T) {
	imports := importsOf(`import a from './a';
import b from './b';
const c = require('./c');
`)
	require.Len(t, imports, 3)
	assert.Equal(t, "./a", imports[0].Specifier)
	assert.Equal(t, "./b", imports[1].Specifier)
	assert.Equal(t, "./c", imports[2].Specifier)
	assert.Equal(t, 3, imports[2].Line)
}
