// Public domain.

package main

import "github.com/soniakeys/microlens/internal/mlprog"

func main() {
	mlprog.Main()
}
