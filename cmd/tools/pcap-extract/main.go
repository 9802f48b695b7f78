// Command pcap-extract pulls UDP telemetry payloads out of a pcap capture
// and writes them as a framed capture file for tlm2csv. Useful when the
// ground network is captured with tcpdump rather than tlmrecord.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/banshee-data/telemetry.report/internal/framing"
	"github.com/banshee-data/telemetry.report/internal/version"
)

var (
	pcapFile    = flag.String("pcap", "", "pcap capture file to read (required)")
	out         = flag.String("out", "", "framed capture file to write (required)")
	port        = flag.Int("port", 1235, "UDP destination port carrying telemetry")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("pcap-extract", version.String())
		return
	}
	if *pcapFile == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "pcap-extract: -pcap and -out are required")
		flag.Usage()
		os.Exit(2)
	}

	in, err := os.Open(*pcapFile)
	if err != nil {
		log.Fatalf("opening %s: %v", *pcapFile, err)
	}
	defer in.Close()

	dst, err := os.Create(*out)
	if err != nil {
		log.Fatalf("creating %s: %v", *out, err)
	}
	defer dst.Close()

	extracted, dropped, err := extract(in, dst, *port)
	if err != nil {
		log.Fatalf("extracting from %s: %v", *pcapFile, err)
	}

	if dropped > 0 {
		log.Printf("dropped %d payloads with mismatched length", dropped)
	}
	log.Printf("extracted %d packets from %s to %s", extracted, *pcapFile, *out)
}

// extract copies UDP payloads addressed to port from a pcap stream into a
// framed capture. The first matching payload fixes the packet length;
// later payloads of a different size are counted as dropped. A capture with
// no matching payloads is an error, since the framed file would be left
// without even a length header and tlm2csv could not read it.
func extract(in io.Reader, dst io.Writer, port int) (extracted, dropped int, err error) {
	reader, err := pcapgo.NewReader(in)
	if err != nil {
		return 0, 0, fmt.Errorf("reading pcap header: %v", err)
	}

	var w *framing.Writer
	for {
		data, _, err := reader.ReadPacketData()
		if err == io.EOF {
			break
		}
		if err != nil {
			return extracted, dropped, fmt.Errorf("reading pcap packet: %v", err)
		}

		packet := gopacket.NewPacket(data, reader.LinkType(), gopacket.Default)
		udpLayer := packet.Layer(layers.LayerTypeUDP)
		if udpLayer == nil {
			continue
		}
		udp, ok := udpLayer.(*layers.UDP)
		if !ok || int(udp.DstPort) != port || len(udp.Payload) == 0 {
			continue
		}

		if w == nil {
			// First payload fixes the packet length for the whole file.
			w, err = framing.NewWriter(dst, len(udp.Payload))
			if err != nil {
				return extracted, dropped, fmt.Errorf("writing capture header: %v", err)
			}
		}

		if err := w.WritePacket(udp.Payload); err != nil {
			var fe *framing.FramingError
			if errors.As(err, &fe) {
				dropped++
				continue
			}
			return extracted, dropped, fmt.Errorf("writing packet: %v", err)
		}
		extracted++
	}

	if w == nil {
		return 0, dropped, fmt.Errorf("no UDP payloads on port %d", port)
	}
	return extracted, dropped, nil
}
