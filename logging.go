package eurailnet

import (
	"log"
	"os"
)

func InitLogging() {
	log.SetOutput(os.Stdout)
	log.SetPrefix("eurail ")
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}
