package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"backoffice-agent/internal/config"
	"backoffice-agent/internal/service"
	"backoffice-agent/internal/version"
)

func main() {
	// Define command line flags
	install := flag.Bool("install", false, "Install Windows service")
	uninstall := flag.Bool("uninstall", false, "Uninstall Windows service")
	start := flag.Bool("start", false, "Start the service")
	stop := flag.Bool("stop", false, "Stop the service")
	debug := flag.Bool("debug", false, "Run in debug/console mode")
	showVersion := flag.Bool("version", false, "Show version information")
	check := flag.Bool("check", false, "Load the configuration, print it and exit")
	flag.Parse()

	// Show version
	if *showVersion {
		fmt.Printf("Back-office Agent\n")
		fmt.Printf("Version: %s\n", version.Version)
		os.Exit(0)
	}

	// Get executable path
	exePath, err := os.Executable()
	if err != nil {
		log.Fatal(err)
	}

	// Change to executable directory for config loading
	if err := os.Chdir(filepath.Dir(exePath)); err != nil {
		log.Printf("Warning: could not change to executable directory: %v", err)
	}

	switch {
	case *check:
		cfg, err := config.NewConfig()
		if err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
		printSummary(cfg)

	case *install:
		err = service.InstallService(exePath)
		if err != nil {
			log.Fatalf("Failed to install service: %v", err)
		}
		fmt.Println("Service installed successfully")

		// Start the service after installation
		err = service.StartService()
		if err != nil {
			log.Printf("Warning: Failed to start service: %v", err)
			fmt.Println("You may need to start the service manually")
		} else {
			fmt.Println("Service started")
		}

	case *uninstall:
		// Try to stop service first
		_ = service.StopService()

		err = service.UninstallService()
		if err != nil {
			log.Fatalf("Failed to uninstall service: %v", err)
		}
		fmt.Println("Service uninstalled successfully")

	case *start:
		err = service.StartService()
		if err != nil {
			log.Fatalf("Failed to start service: %v", err)
		}
		fmt.Println("Service started")

	case *stop:
		err = service.StopService()
		if err != nil {
			log.Fatalf("Failed to stop service: %v", err)
		}
		fmt.Println("Service stopped")

	default:
		// Check if running as Windows service
		isService, err := service.IsWindowsService()
		if err != nil {
			log.Printf("Warning: could not determine if running as service: %v", err)
		}

		app := service.NewApplication()

		if isService {
			// Running as Windows service
			service.RunService(false, app)
		} else if *debug {
			// Running in debug mode
			service.RunService(true, app)
		} else {
			// Running in console mode
			if cfg, err := config.NewConfig(); err == nil {
				printSummary(cfg)
			} else {
				log.Printf("Warning: could not load configuration: %v", err)
			}
			fmt.Println("Running in console mode. Press Ctrl+C to stop.")
			fmt.Println()
			fmt.Println("Available commands:")
			flag.VisitAll(func(f *flag.Flag) {
				fmt.Printf("  -%-10s %s\n", f.Name, f.Usage)
			})
			fmt.Println()

			app.Run()
			if err := app.Err(); err != nil {
				log.Fatalf("Agent failed to start: %v", err)
			}
		}
	}
}

func printSummary(cfg *config.Config) {
	fmt.Println("Back-office Agent")
	fmt.Println("  " + strings.Join(service.Summary(cfg), "\n  "))
	fmt.Println()
}
