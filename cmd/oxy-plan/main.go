// Command oxy-plan loads a scene description, runs one composition update and
// prints the resulting render plan.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
