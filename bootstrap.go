package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/nabinked/kcl-bootstrap/cache"
	"github.com/nabinked/kcl-bootstrap/common"
	"github.com/nabinked/kcl-bootstrap/config"
	"github.com/nabinked/kcl-bootstrap/event"
	"github.com/nabinked/kcl-bootstrap/jre"
	"github.com/nabinked/kcl-bootstrap/launch"
	"github.com/nabinked/kcl-bootstrap/maven"
)

var (
	options config.Options

	command = &cobra.Command{
		Use:           "kcl-bootstrap",
		Short:         "Fetches the MultiLangDaemon classpath and launches the daemon or prints its invocation",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			bootstrap()
		},
	}
)

func init() {
	flags := command.Flags()
	flags.StringVarP(&options.JavaLocation, "java", "j", "", "path to the java executable")
	flags.StringVarP(&options.PropertiesFile, "properties", "p", "", "path to the MultiLangDaemon properties file")
	flags.StringVar(&options.JarFolder, "jar-folder", config.DefaultJarFolder, "folder to materialize classpath jars into")
	flags.BoolVarP(&options.Execute, "execute", "e", false, "launch the daemon instead of printing its invocation")
	flags.StringVarP(&options.LogConfiguration, "log-configuration", "l", "", "path to a logback configuration file")
	flags.DurationVar(&options.FetchTimeout, "fetch-timeout", cache.DefaultTimeout, "timeout for a single jar download")
}

func main() {
	if err := command.Execute(); err != nil {
		log.Fatalf("%s: %v", os.Args[0], err)
	}
}

// bootstrap drives the pipeline in its one legal order: complete the
// classpath, locate a runtime, assemble the invocation, dispatch it.
// Only the dry-run line goes to stdout, everything else is diagnostics.
func bootstrap() {
	platform := common.CurrentPlatform()
	if err := options.Validate(); err != nil {
		log.Fatalf("%s: %v", os.Args[0], err)
	}
	if err := maven.Validate(maven.Packages); err != nil {
		log.Fatalf("%s: invalid jar manifest: %v", os.Args[0], err)
	}
	bus := event.NewBus()
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for evt := range bus.Events() {
			logProgress(evt)
		}
	}()
	classpath, err := cache.New(options.FetchTimeout).Ensure(options.JarFolder, maven.Packages, bus)
	<-drained
	if err != nil {
		log.Fatalf("%s: %v", os.Args[0], err)
	}
	java, ok := jre.Find(options.JavaLocation, platform, jre.ProcessStarter{})
	if !ok {
		log.Println("Unable to locate a java runtime, specify one with --java")
		os.Exit(2)
	}
	invocation := launch.Build(java, classpath, options.PropertiesFile, options.LogConfiguration)
	mode := launch.Print
	if options.Execute {
		mode = launch.Execute
	}
	code, err := launch.Run(invocation, mode, platform, os.Stdout)
	if err != nil {
		log.Fatalf("%s: %v", os.Args[0], err)
	}
	os.Exit(code)
}

func logProgress(evt event.Event) {
	switch evt.Type {
	case event.FetchStarted:
		log.Println("Fetching required jars...")
	case event.JarFetching:
		log.Println(evt.Detail)
	case event.FetchFinished:
		log.Println("Done.")
	}
}
