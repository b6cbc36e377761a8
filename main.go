package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"drytone/doctor"
	"drytone/export"
	"drytone/haptic"
	"drytone/log"
	"drytone/session"
	"drytone/tone"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	modeFlag := flag.String("mode", "water", "Cleaning mode: water, dust, or vibration")
	channelFlag := flag.String("channel", "both", "Output channel: left, right, or both")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	exportFlag := flag.String("export", "", "Render the selected mode to a FLAC file and exit")
	setupFlag := flag.Bool("setup", false, "Select output device (otherwise uses system default)")
	deviceFlag := flag.String("device", "", "Use named output device")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("drytone %s\n", version)
		return 0
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		return 1
	}
	log.SetDir(logPath)

	if *doctorFlag {
		return doctor.Run()
	}

	mode, err := session.ParseMode(*modeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	channel, err := tone.ParseChannel(*channelFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if *exportFlag != "" {
		plan := session.PlanFor(mode)
		if err := export.WriteFile(*exportFlag, plan, channel); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Wrote %s (%s, %s channel, %s)\n", *exportFlag, mode, channel, plan.Span())
		return 0
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	ctx, err := tone.NewContext()
	if err != nil {
		log.Errorf("audio context init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing audio output: %v\n", err)
		fmt.Fprintln(os.Stderr, "Audio is unavailable; fix the audio system and start drytone again.")
		return 1
	}
	defer ctx.Close()

	var selected *tone.DeviceInfo
	if *deviceFlag != "" {
		devices, err := ctx.Devices()
		if err == nil {
			for i := range devices {
				if devices[i].Name == *deviceFlag {
					selected = &devices[i]
					break
				}
			}
		}
		if selected == nil {
			fmt.Fprintf(os.Stderr, "Warning: output device %q not found, using default\n", *deviceFlag)
		}
	} else if *setupFlag {
		selected, err = selectDevice(ctx)
		if err != nil {
			log.Warnf("device selection failed: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: device selection failed: %v\n", err)
			fmt.Fprintln(os.Stderr, "Falling back to default device")
			selected = nil
		}
	}

	emitter, err := ctx.NewEmitter(selected)
	if err != nil {
		log.Errorf("emitter init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error opening audio output: %v\n", err)
		return 1
	}
	defer emitter.Close()

	haptics := haptic.NewDriver()
	defer haptics.Close()
	if !haptics.Available() {
		log.Info("haptics_unavailable")
	}

	if !*tuiFlag {
		return runHeadless(emitter, haptics, mode, channel)
	}
	return runTUI(emitter, haptics)
}

func runTUI(emitter tone.Emitter, haptics haptic.Driver) int {
	controller := session.New(emitter, haptics, tuiReporter{})

	tuiMu.Lock()
	tuiProgram = NewTUIProgram(controller, haptics.Available())
	tuiMu.Unlock()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		controller.Stop()
		tuiProgram.Quit()
	}()

	if _, err := tuiProgram.Run(); err != nil {
		log.Errorf("TUI error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		controller.Stop()
		return 1
	}
	// Releases the audio graph even when the session was still running.
	controller.Stop()
	return 0
}

func runHeadless(emitter tone.Emitter, haptics haptic.Driver, mode session.Mode, channel tone.Channel) int {
	reporter := newConsoleReporter()
	controller := session.New(emitter, haptics, reporter)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		controller.Stop()
	}()

	if !controller.Start(mode, channel) {
		return 1
	}
	<-reporter.Done()
	return 0
}
