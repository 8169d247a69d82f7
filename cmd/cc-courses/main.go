// Command cc-courses searches, serves and tracks the Colorado College course
// schedule.
package main

import "github.com/pfrederiksen/cc-courses/internal/cli"

func main() {
	cli.Execute()
}
