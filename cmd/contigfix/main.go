// cmd/contigfix/main.go
package main

import (
	"contigfix/internal/app"
	"contigfix/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
