// Command roommerge runs the room-merging optimizer over a JSON file of
// exam-room bookings and writes the resulting report as JSON.
package main

import (
	"os"

	"github.com/hanjaya/roommerge/cmd/roommerge/commands"
)

func main() {
	os.Exit(commands.Execute())
}
