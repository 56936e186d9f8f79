package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func exportNames(exports []Export) []string {
	var names []string
	for _, e := range exports {
		names = append(names, e.Name)
	}
	return names
}

func TestExtractExports(t *testing.T) {
	src := NewSource(`export const API_URL = '/api';
export function fetchUser() {}
export async function save() {}
export class Store {}
export abstract class Base {}
export interface Props {}
export type Mode = 'a' | 'b';
export enum Color { Red }
export default App;
export default class Page {}
const a = 1, b = 2;
export { a, b as beta };
`)

	assert.Equal(t, []string{
		"API_URL", "fetchUser", "save", "Store", "Base", "Props",
		"Mode", "Color", "App", "Page", "a", "beta",
	}, exportNames(ExtractExports(src)))
}

func TestExtractExportsCommonJS(t *testing.T) {
	src := NewSource(`function helper() {}
exports.helper = helper;
module.exports.other = 1;
module.exports = Router;
`)

	assert.Equal(t, []string{"helper", "other", "Router"}, exportNames(ExtractExports(src)))
}

func TestExtractExportsLines(t *testing.T) {
	src := NewSource("// header\n\nexport const x = 1;\n")
	exports := ExtractExports(src)
	if assert.Len(t, exports, 1) {
		assert.Equal(t, 3, exports[0].Line)
	}
}

func TestExtractExportsSkipsCommented(t *testing.T) {
	src := NewSource("// export const hidden = 1;\nconst s = 'export const quoted = 2';\n")
	assert.Empty(t, ExtractExports(src))
}
