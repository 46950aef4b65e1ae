// Command ascom-loopback is the thin host-side CLI shell for exercising an
// ASCII-Serial-Com endpoint over two files (or stdin/stdout), matching
// spec.md §6.5. In its default mode it runs a full protocol-level
// loopback device (device.NewLoopbackDevice): reads frames from infile,
// answers them, and writes replies to outfile. With -l it instead copies
// bytes verbatim, bypassing the codec entirely, for transport-level
// debugging.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/daedaluz/ascom/device"
	"github.com/daedaluz/ascom/ioadapt"
	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

const usage = `usage: ascom-loopback [-h] [-l] [-config file] [infile outfile]
  -h          print this message and exit 0
  -l          raw byte loopback, bypassing the frame codec
  -config     INI file with a [device] section (ver, app, period_ms)
  infile/outfile default to stdin/stdout
`

type config struct {
	ver, app byte
	periodMs uint32
}

func defaultConfig() config {
	return config{ver: '0', app: '0', periodMs: 100}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	f, err := ini.Load(path)
	if err != nil {
		return cfg, err
	}
	sec := f.Section("device")
	if v := sec.Key("ver").String(); v != "" {
		cfg.ver = v[0]
	}
	if v := sec.Key("app").String(); v != "" {
		cfg.app = v[0]
	}
	if v := sec.Key("period_ms").MustUint(uint(cfg.periodMs)); v > 0 {
		cfg.periodMs = uint32(v)
	}
	return cfg, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("ascom-loopback", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	help := fs.Bool("h", false, "")
	raw := fs.Bool("l", false, "")
	configPath := fs.String("config", "", "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stdout, usage)
		return 1
	}
	if *help {
		fmt.Fprint(stdout, usage)
		return 0
	}

	var in io.Reader = stdin
	var out io.Writer = stdout
	rest := fs.Args()
	if len(rest) >= 1 {
		f, err := os.Open(rest[0])
		if err != nil {
			fmt.Fprintln(stdout, err)
			return 1
		}
		defer f.Close()
		in = f
	}
	if len(rest) >= 2 {
		f, err := os.Create(rest[1])
		if err != nil {
			fmt.Fprintln(stdout, err)
			return 1
		}
		defer f.Close()
		out = f
	}

	if *raw {
		if _, err := io.Copy(out, in); err != nil && err != io.EOF {
			return 1
		}
		return 0
	}

	cfg := defaultConfig()
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(stdout, err)
			return 1
		}
		cfg = loaded
	}

	log := logrus.New()
	ep := device.NewLoopbackDevice(cfg.ver, cfg.app, cfg.periodMs, log)
	transport := fileTransport{r: in, w: out}
	pio := ioadapt.NewPollIO(ep.In, ep.Out, transport, log)

	start := time.Now()
	var loopErr error
	for {
		err := pio.Iteration(50 * time.Millisecond)
		ep.Step(uint32(time.Since(start).Milliseconds()))
		if err != nil {
			loopErr = err
			break
		}
	}
	// The input side hit EOF or an error above; still flush any reply
	// Step queued into Out before that happened.
	for !ep.Out.IsEmpty() {
		if _, werr := ep.Out.PopFrontToWriter(transport.Write); werr != nil {
			loopErr = werr
			break
		}
	}
	if loopErr != nil && loopErr != io.EOF {
		fmt.Fprintln(stdout, loopErr)
		return 1
	}
	return 0
}

// fileTransport adapts a plain io.Reader/io.Writer pair (stdin/stdout or
// opened files) to ioadapt.Transport, ignoring the requested timeout since
// file and pipe reads here are expected to block until data or EOF.
type fileTransport struct {
	r io.Reader
	w io.Writer
}

func (t fileTransport) ReadTimeout(dst []byte, _ time.Duration) (int, error) {
	return t.r.Read(dst)
}

func (t fileTransport) Write(src []byte) (int, error) {
	return t.w.Write(src)
}
