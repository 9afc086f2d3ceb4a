package wasm

import (
	"fmt"
	"strings"
)

func renderBuildScript(moduleName string) string {
	return fmt.Sprintf(`#!/bin/sh
set -e
wat2wasm %s.wat -o %s.wasm
`, moduleName, moduleName)
}

// renderLoader emits the Node/browser host glue: it instantiates the
// module and supplies the ion.effect_enter import, resolving the i32
// function id through the table generated alongside the WAT.
func renderLoader(moduleName string, effects []effectFunc) string {
	var table strings.Builder
	for i, e := range effects {
		names := make([]string, len(e.Effects))
		for j, n := range e.Effects {
			names[j] = fmt.Sprintf("%q", n)
		}
		table.WriteString(fmt.Sprintf("  { name: %q, effects: [%s] },", e.Name, strings.Join(names, ", ")))
		if i < len(effects)-1 {
			table.WriteString("\n")
		}
	}

	return fmt.Sprintf(`// Host glue for %s.wasm. Run with: node loader.js
"use strict";

const effectTable = [
%s
];

const imports = {
  ion: {
    effect_enter(id) {
      const entry = effectTable[id];
      if (entry) {
        console.log("[ion-effect] " + entry.name + ": " + entry.effects.join(", "));
      }
    },
  },
};

async function load() {
  const bytes = require("fs").readFileSync("%s.wasm");
  const { instance } = await WebAssembly.instantiate(bytes, imports);
  return instance.exports;
}

module.exports = { load, effectTable };

if (require.main === module) {
  load().then((exports) => {
    console.log("exports:", Object.keys(exports).join(", "));
  });
}
`, moduleName, table.String(), moduleName)
}
