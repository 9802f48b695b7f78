// Command tlmrecord listens for telemetry datagrams on a UDP port and
// records them as a framed capture file suitable for tlm2csv. The packet
// length is learned from the first datagram; later datagrams of a different
// size are dropped with a warning, since one capture file carries exactly
// one packet size.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/telemetry.report/internal/framing"
	"github.com/banshee-data/telemetry.report/internal/version"
)

var (
	listen      = flag.String("listen", ":1235", "UDP address to listen on")
	out         = flag.String("out", "", "capture file to write (required)")
	count       = flag.Int("count", 0, "stop after this many packets (0 = run until interrupted)")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("tlmrecord", version.String())
		return
	}
	if *out == "" {
		fmt.Fprintln(os.Stderr, "tlmrecord: -out is required")
		flag.Usage()
		os.Exit(2)
	}

	addr, err := net.ResolveUDPAddr("udp", *listen)
	if err != nil {
		log.Fatalf("resolving %s: %v", *listen, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		log.Fatalf("listening on %s: %v", *listen, err)
	}
	defer conn.Close()

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("creating %s: %v", *out, err)
	}
	defer f.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		// Unblock the read loop when the user interrupts.
		<-ctx.Done()
		conn.Close()
	}()

	log.Printf("recording telemetry from %s to %s", conn.LocalAddr(), *out)

	var w *framing.Writer
	recorded := 0
	buffer := make([]byte, 65536)
	for *count == 0 || recorded < *count {
		n, _, err := conn.ReadFromUDP(buffer)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("read error: %v", err)
			continue
		}

		if w == nil {
			// First datagram fixes the packet length for the whole file.
			w, err = framing.NewWriter(f, n)
			if err != nil {
				log.Fatalf("writing capture header: %v", err)
			}
			log.Printf("packet length set to %d bytes", n)
		}

		if err := w.WritePacket(buffer[:n]); err != nil {
			var fe *framing.FramingError
			if errors.As(err, &fe) {
				log.Printf("dropping %d byte datagram: %v", n, err)
				continue
			}
			log.Fatalf("writing packet: %v", err)
		}
		recorded++
	}

	log.Printf("recorded %d packets to %s", recorded, *out)
}
