package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pixelvide/sidemon/pkg/root"

	_ "github.com/pixelvide/sidemon/pkg/console" // Register commands
)

func main() {
	r := root.GetRoot()
	root.SetInfo(commandName(os.Args[0]), r.Short, r.Long)
	root.Execute()
}

// commandName is the name help output uses: the binary as it was invoked.
func commandName(arg0 string) string {
	name := strings.TrimSuffix(filepath.Base(arg0), ".exe")
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "sidemon"
	}
	return name
}
