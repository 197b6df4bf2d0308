// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/propnear/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
