package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"gopkg.in/urfave/cli.v1"

	"Linksim/cmd/linksim/config"
	"Linksim/internel/logging"
	"Linksim/internel/utils"
	"Linksim/pkg/async"
	"Linksim/pkg/bitcodec"
	"Linksim/pkg/layers"
	"Linksim/pkg/transport"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "YAML or TOML configuration file",
	}
	textFlag = cli.StringSliceFlag{
		Name:  "text",
		Usage: "message to send, repeatable; lines of stdin when absent",
	}
	dumpFlag = cli.StringFlag{
		Name:  "dump",
		Usage: "write the carrier samples of the last message as little-endian float64",
	}
	dumpTxtFlag = cli.StringFlag{
		Name:  "dump-txt",
		Usage: "write the carrier of the last message as \"time sample\" lines",
	}
	bitsFlag = cli.BoolFlag{
		Name:  "bits",
		Usage: "print the framed bit stream",
	}

	transmitCommand = cli.Command{
		Action:    transmit,
		Name:      "transmit",
		Usage:     "Send messages to a receiver",
		ArgsUsage: "",
		Flags:     []cli.Flag{textFlag, dumpFlag, dumpTxtFlag, bitsFlag},
	}
	receiveCommand = cli.Command{
		Action: receive,
		Name:   "receive",
		Usage:  "Accept transmitters and decode what they send until Enter or Ctrl-C",
	}
	simulateCommand = cli.Command{
		Action: simulate,
		Name:   "simulate",
		Usage:  "Transmit and receive in process",
		Flags:  []cli.Flag{textFlag, dumpFlag, dumpTxtFlag, bitsFlag},
	}
)

var (
	okColor        = color.New(color.FgGreen, color.Bold)
	correctedColor = color.New(color.FgYellow, color.Bold)
	detectedColor  = color.New(color.FgRed, color.Bold)
	labelColor     = color.New(color.FgCyan)
)

func main() {
	app := cli.NewApp()
	app.Name = "linksim"
	app.Usage = "link and physical layer simulator"
	app.Flags = []cli.Flag{configFlag}
	app.Commands = []cli.Command{transmitCommand, receiveCommand, simulateCommand}
	app.Before = func(ctx *cli.Context) error {
		logging.ConfigureRuntime()
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	if file := ctx.GlobalString(configFlag.Name); file != "" {
		return config.LoadConfig(file)
	}
	return config.DefaultConfig(), nil
}

// messages feeds the --text values, or the lines of r, into a channel.
func messages(ctx context.Context, texts []string, r io.Reader) <-chan layers.Message {
	out := make(chan layers.Message)
	go func() {
		defer close(out)
		send := func(text string) bool {
			select {
			case out <- layers.Message{Text: text}:
				return true
			case <-ctx.Done():
				return false
			}
		}
		if len(texts) > 0 {
			for _, text := range texts {
				if !send(text) {
					return
				}
			}
			return
		}
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if !send(scanner.Text()) {
				return
			}
		}
	}()
	return out
}

// dump writes the carrier of tx to the files named by the flags.
func dump(ctx *cli.Context, tx *layers.Transmission) error {
	if file := ctx.String(dumpFlag.Name); file != "" {
		if err := utils.WriteBinary(file, tx.Carrier.Samples); err != nil {
			return err
		}
	}
	if file := ctx.String(dumpTxtFlag.Name); file != "" {
		indices := make([]int, tx.Carrier.Len())
		for i := range indices {
			indices[i] = i
		}
		err := utils.WriteTxt(file, indices, func(i int) string {
			return fmt.Sprintf("%g %g", tx.Carrier.Time[i], tx.Carrier.Samples[i])
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func printTransmission(ctx *cli.Context, tx *layers.Transmission) {
	labelColor.Printf("Sent: ")
	fmt.Printf("%q, %d frame bits, %d digital and %d carrier samples\n",
		tx.Text, len(tx.Frames), tx.Digital.Len(), tx.Carrier.Len())
	if ctx.Bool(bitsFlag.Name) {
		labelColor.Printf("Frames: ")
		fmt.Println(bitcodec.String(tx.Frames))
	}
	if tx.ContainsError {
		labelColor.Printf("Flipped: ")
		fmt.Println(tx.Flipped)
	}
}

func printResult(label string, r layers.Result) {
	labelColor.Printf("%s: ", label)
	switch r.Status {
	case layers.StatusOK:
		okColor.Printf("[%s] ", r.Status)
	case layers.StatusCorrected:
		correctedColor.Printf("[%s] ", r.Status)
	default:
		detectedColor.Printf("[%s] ", r.Status)
	}
	fmt.Printf("%q", r.Text)
	if r.PhysicalMismatch {
		correctedColor.Printf(" (line and carrier decode disagree)")
	}
	fmt.Println()
	if err := r.Err(); err != nil {
		fmt.Println(strings.ReplaceAll(err.Error(), "\n", "; "))
	}
}

func transmit(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	pipeline, err := config.CreatePipeline(cfg)
	if err != nil {
		return err
	}

	c, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-async.Exit()
		cancel()
	}()

	client := config.CreateClient(cfg)
	if err := client.Dial(c); err != nil {
		return err
	}
	defer client.Close()

	txs := make(chan *layers.Transmission)
	down := async.Try(func() (struct{}, error) {
		defer close(txs)
		return struct{}{}, pipeline.DownwardLoop(c, messages(c, ctx.StringSlice(textFlag.Name), os.Stdin), txs)
	})

	var last *layers.Transmission
	for tx := range txs {
		id, err := client.Transmit(c, tx)
		if err != nil {
			return err
		}
		log.Info().Stringer("id", id).Str("to", client.Addr).Msg("[Transmit] sent")
		printTransmission(ctx, tx)
		last = tx
	}
	if _, err := async.AwaitResult(down); err != nil {
		return err
	}
	if last != nil {
		return dump(ctx, last)
	}
	return nil
}

func receive(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	server := config.CreateServer(cfg)

	c, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-async.Exit():
		case <-async.EnterKey(os.Stdin):
		}
		cancel()
	}()

	served := async.Try(func() (struct{}, error) {
		return struct{}{}, server.ListenAndServe(c)
	})
	go func() {
		select {
		case <-server.Ready():
			if addr := server.ListenAddr(); addr != nil {
				labelColor.Printf("Listening on %s, press Enter to stop\n", addr)
			}
		case <-c.Done():
		}
	}()

	for d := range server.Results {
		printDelivery(d)
	}
	_, err = async.AwaitResult(served)
	return err
}

func printDelivery(d transport.Delivery) {
	labelColor.Printf("From %v ", d.Remote)
	fmt.Println(d.ID)
	if d.Err != nil {
		detectedColor.Println(d.Err)
		return
	}
	if d.Text != "" {
		labelColor.Printf("Sent: ")
		fmt.Printf("%q\n", d.Text)
	}
	printResult("Clean", d.Clean)
	if d.ContainsError {
		printResult("With errors", d.Corrupted)
	}
}

func simulate(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	pipeline, err := config.CreatePipeline(cfg)
	if err != nil {
		return err
	}

	c, cancel := context.WithCancel(context.Background())
	defer cancel()

	txs := make(chan *layers.Transmission)
	out := make(chan layers.Message)
	down := async.Try(func() (struct{}, error) {
		defer close(txs)
		return struct{}{}, pipeline.DownwardLoop(c, messages(c, ctx.StringSlice(textFlag.Name), os.Stdin), txs)
	})
	up := async.Try(func() (struct{}, error) {
		defer close(out)
		return struct{}{}, pipeline.UpwardLoop(c, txs, out)
	})

	var last *layers.Transmission
	for m := range out {
		tx := m.Transmission
		printTransmission(ctx, tx)
		clean, err := pipeline.ReceiveSignals(tx.Signals)
		if err != nil {
			return err
		}
		printResult("Clean", clean)
		if m.Err != nil {
			detectedColor.Println(m.Err)
		} else {
			printResult("Channel", m.Result)
		}
		last = tx
	}

	r1, r2 := async.Await2(async.Gather2(down, up))
	if r1.Err != nil {
		return r1.Err
	}
	if r2.Err != nil {
		return r2.Err
	}
	if last != nil {
		return dump(ctx, last)
	}
	return nil
}
