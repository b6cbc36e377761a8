// Package doctor runs interactive diagnostics for the audio output and
// haptic subsystems.
package doctor

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"drytone/haptic"
	"drytone/tone"
)

// Run executes the diagnostic checks and returns an exit code
// (0=all pass, 1=any fail).
func Run() int {
	fmt.Println("drytone doctor - system diagnostics")
	fmt.Println("===================================")

	allPass := true

	if !checkAudioOutput() {
		allPass = false
	}
	checkHaptics()

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkAudioOutput() bool {
	fmt.Println()
	fmt.Println("[1/2] Audio output")

	ctx, err := tone.NewContext()
	if err != nil {
		fmt.Printf("  FAIL: cannot connect to audio: %v\n", err)
		return false
	}
	defer ctx.Close()

	devices, err := ctx.Devices()
	if err != nil {
		fmt.Printf("  FAIL: cannot list output devices: %v\n", err)
		return false
	}
	if len(devices) == 0 {
		fmt.Println("  FAIL: no output devices found")
		return false
	}
	for _, d := range devices {
		fmt.Printf("  found: %s\n", d.Name)
	}

	emitter, err := ctx.NewEmitter(nil)
	if err != nil {
		fmt.Printf("  FAIL: cannot open default output: %v\n", err)
		return false
	}
	defer emitter.Close()

	fmt.Println("Playing a 1 second test tone...")
	if err := emitter.Play(440, time.Second, tone.Both); err != nil {
		fmt.Printf("  FAIL: playback error: %v\n", err)
		return false
	}
	time.Sleep(1200 * time.Millisecond)
	emitter.StopAll()

	fmt.Print("Did you hear the tone? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if a := strings.TrimSpace(strings.ToLower(answer)); a != "y" && a != "yes" {
		fmt.Println("  FAIL: tone not heard")
		return false
	}

	fmt.Println("  PASS: audio output works")
	return true
}

func checkHaptics() {
	fmt.Println()
	fmt.Println("[2/2] Haptics")

	driver := haptic.NewDriver()
	defer driver.Close()

	if !driver.Available() {
		fmt.Println("  INFO: no haptic actuator (vibration mode will be unavailable)")
		return
	}

	fmt.Println("Pulsing for 1 second...")
	driver.Start(200*time.Millisecond, 100*time.Millisecond)
	time.Sleep(time.Second)
	driver.Stop()
	fmt.Println("  PASS: haptic actuator present")
}
