package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"ledgerpad/internal/action"
	"ledgerpad/internal/config"
	"ledgerpad/internal/ledger"
	"ledgerpad/internal/touch"
	"ledgerpad/internal/tui"
	"ledgerpad/internal/ui"
	"ledgerpad/internal/upload"
)

const Version = "0.1.0"

func main() {
	// Check for subcommands first
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "list-devices":
			runListDevices()
			return
		case "set-device", "select-device":
			runSetDevice(os.Args[2:])
			return
		case "watch-upload":
			runWatchUpload(os.Args[2:])
			return
		case "help", "-h", "--help":
			printUsage()
			os.Exit(0)
		}
	}

	// Main command flags
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	uploadID := flag.String("upload", "", "follow this statement upload in the status line")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	version := flag.Bool("version", false, "print version and exit")

	flag.Usage = printUsage
	flag.Parse()

	if *version {
		ui.PrintVersion(Version)
		os.Exit(0)
	}

	watcher, err := config.NewWatcher(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	defer watcher.Stop()
	cfg := watcher.Get()

	if *verbose {
		log.Printf("Loaded configuration from %s", *configPath)
		log.Printf("Ledger service: %s", cfg.API.BaseURL)
		if cfg.Device.VendorID != 0 {
			log.Printf("Digitizer: VendorID=0x%04X, ProductID=0x%04X",
				cfg.Device.VendorID, cfg.Device.ProductID)
		}
	}

	client := ledger.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutMs)*time.Millisecond)
	poller := upload.NewPoller(cfg.API.BaseURL,
		time.Duration(cfg.API.UploadPollMs)*time.Millisecond,
		time.Duration(cfg.API.TimeoutMs)*time.Millisecond)

	mapper := action.NewMapper(cfg)
	watcher.OnReload(mapper.Reload)
	watcher.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model, err := tui.New(ctx, cfg, client, poller, mapper, *uploadID)
	if err != nil {
		log.Fatalf("Failed to initialize panel: %v", err)
	}

	// Initial viewport evaluation with the real terminal width. Gesture
	// handling only engages while the panel is compact.
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		model.StartGestures(width)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		if *verbose {
			log.Println("Received shutdown signal")
		}
		cancel()
		p.Quit()
	}()

	if cfg.Device.VendorID != 0 || cfg.Device.ProductID != 0 {
		startDigitizer(ctx, cfg, p, *verbose)
	}

	if _, err := p.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}

	// Quit paths outside the model's own key handling still tear the
	// controller down; Destroy is idempotent.
	model.Controller().Destroy()

	if *verbose {
		log.Println("Shutdown complete")
	}
}

// startDigitizer opens the configured touch digitizer and forwards its
// events into the panel's update loop. A missing digitizer is not fatal:
// the panel keeps running on terminal mouse reporting while a background
// loop waits for the device.
func startDigitizer(ctx context.Context, cfg *config.Config, p *tea.Program, verbose bool) {
	events := make(chan touch.Event, 64)

	go func() {
		dig, err := touch.Open(cfg.Device.VendorID, cfg.Device.ProductID)
		for err != nil {
			if verbose {
				log.Printf("Digitizer unavailable, retrying: %v", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			dig, err = touch.Open(cfg.Device.VendorID, cfg.Device.ProductID)
		}
		defer dig.Close()

		for {
			if err := dig.ReadEvents(ctx, events); err != nil {
				if ctx.Err() != nil {
					return
				}
				if verbose {
					log.Printf("Digitizer read error, reconnecting: %v", err)
				}
				if err := dig.WaitForDevice(ctx, time.Second); err != nil {
					return
				}
			}
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				p.Send(tui.TouchMsg{Event: ev})
			}
		}
	}()
}

func printUsage() {
	ui.PrintUsage(Version)
}

// runListDevices handles the list-devices subcommand
func runListDevices() {
	devices, err := touch.ListDevices()
	if err != nil {
		ui.PrintFatalError("Failed to list devices", err.Error())
		os.Exit(1)
	}
	uiDevices := make([]ui.DeviceInfo, len(devices))
	for i, d := range devices {
		uiDevices[i] = ui.DeviceInfo{
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Manufacturer: d.Manufacturer,
			Product:      d.Product,
			Touch:        d.TouchSurface(),
		}
	}
	ui.PrintDeviceList(uiDevices)
}

// runSetDevice handles the set-device subcommand
func runSetDevice(args []string) {
	fs := flag.NewFlagSet("set-device", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	fs.Usage = func() {
		ui.PrintSetDeviceUsage()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	remaining := fs.Args()

	var vendorID, productID uint16

	if len(remaining) >= 2 {
		// Parse provided IDs
		vid, err := parseID(remaining[0])
		if err != nil {
			ui.PrintFatalError("Invalid vendor_id", fmt.Sprintf("%q: %v", remaining[0], err))
			os.Exit(1)
		}
		pid, err := parseID(remaining[1])
		if err != nil {
			ui.PrintFatalError("Invalid product_id", fmt.Sprintf("%q: %v", remaining[1], err))
			os.Exit(1)
		}
		vendorID = vid
		productID = pid
	} else if len(remaining) == 1 {
		ui.PrintFatalError("Invalid arguments", "Both vendor_id and product_id must be provided, or neither")
		os.Exit(1)
	} else {
		// Interactive selection
		device, err := selectDevice()
		if err != nil {
			ui.PrintFatalError("Device selection failed", err.Error())
			os.Exit(1)
		}
		if device == nil {
			fmt.Println(ui.Muted("No device selected"))
			os.Exit(0)
		}
		vendorID = device.VendorID
		productID = device.ProductID
	}

	// Update or create config file
	if config.Exists(*configPath) {
		if err := config.UpdateDeviceIDs(*configPath, vendorID, productID); err != nil {
			ui.PrintFatalError("Failed to update config", err.Error())
			os.Exit(1)
		}
		ui.PrintDeviceUpdated(*configPath, vendorID, productID)
	} else {
		if err := config.CreateDefaultConfig(*configPath, vendorID, productID); err != nil {
			ui.PrintFatalError("Failed to create config", err.Error())
			os.Exit(1)
		}
		ui.PrintDeviceCreated(*configPath, vendorID, productID)
	}
}

// runWatchUpload handles the watch-upload subcommand: it follows a statement
// upload's import progress until the ledger reports a terminal state.
func runWatchUpload(args []string) {
	fs := flag.NewFlagSet("watch-upload", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	fs.Usage = func() {
		ui.PrintWatchUploadUsage()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	remaining := fs.Args()
	if len(remaining) != 1 {
		ui.PrintWatchUploadUsage()
		os.Exit(1)
	}
	uploadID := remaining[0]

	cfg, err := config.Load(*configPath)
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}

	poller := upload.NewPoller(cfg.API.BaseURL,
		time.Duration(cfg.API.UploadPollMs)*time.Millisecond,
		time.Duration(cfg.API.TimeoutMs)*time.Millisecond)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println()
	fmt.Println(ui.Title("Watching upload " + uploadID))

	status, err := poller.Watch(ctx, uploadID, func(s upload.Status) {
		ui.PrintUploadProgress(s.State, s.Processed, s.Total)
	})
	if err != nil {
		ui.PrintFatalError("Failed to watch upload", err.Error())
		os.Exit(1)
	}

	if status.State == upload.StateFailed {
		ui.PrintUploadFailed(uploadID, status.Error)
		os.Exit(1)
	}
	ui.PrintUploadComplete(uploadID, status.Total)
}

// parseID parses a vendor or product ID from string (supports hex with 0x prefix or decimal)
func parseID(s string) (uint16, error) {
	s = strings.TrimSpace(s)

	var val uint64
	var err error

	if strings.HasPrefix(strings.ToLower(s), "0x") {
		val, err = strconv.ParseUint(s[2:], 16, 16)
	} else {
		val, err = strconv.ParseUint(s, 10, 16)
	}

	if err != nil {
		return 0, err
	}

	return uint16(val), nil
}

// selectDevice displays an interactive device selection menu using huh.
// Devices claiming the digitizer usage page are offered first; when the
// platform reports none, the full HID list is shown instead.
func selectDevice() (*ui.DeviceInfo, error) {
	devices, err := touch.ListDigitizers()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	if len(devices) == 0 {
		devices, err = touch.ListDevices()
		if err != nil {
			return nil, fmt.Errorf("failed to list devices: %w", err)
		}
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("no HID devices found")
	}

	// Deduplicate devices by vendor/product ID
	seen := make(map[uint32]bool)
	var unique []ui.DeviceInfo

	for _, d := range devices {
		key := uint32(d.VendorID)<<16 | uint32(d.ProductID)
		if seen[key] {
			continue
		}
		seen[key] = true

		// Skip devices with no vendor/product ID
		if d.VendorID == 0 && d.ProductID == 0 {
			continue
		}

		unique = append(unique, ui.DeviceInfo{
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Manufacturer: d.Manufacturer,
			Product:      d.Product,
			Touch:        d.TouchSurface(),
		})
	}

	if len(unique) == 0 {
		return nil, fmt.Errorf("no identifiable HID devices found")
	}

	return ui.SelectDevice(unique)
}
