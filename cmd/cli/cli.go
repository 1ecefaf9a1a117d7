package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/canopy-network/lphelper/cmd/rpc"
	"github.com/canopy-network/lphelper/controller"
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/metrics"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rootCmd = &cobra.Command{
	Use:   "lphelper",
	Short: "the balancing liquidity helper node",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(rpc.SoftwareVersion)
	},
}

var (
	client, config, l = &rpc.Client{}, lib.Config{}, lib.LoggerI(nil)
	DataDir           = ""
)

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(txCmd)
	rootCmd.PersistentFlags().StringVar(&DataDir, "data-dir", lib.DefaultDataDirPath(), "custom data directory location")
	// the data directory is only known once the flags are parsed
	cobra.OnInitialize(func() {
		config = InitializeDataDirectory(DataDir, lib.NewDefaultLogger())
		l = lib.NewLogger(lib.LoggerConfig{Level: config.GetLogLevel()}, config.DataDirPath)
		client = rpc.NewClient(config.RPCUrl)
	})
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "start the node and its rpc",
	Run: func(cmd *cobra.Command, args []string) {
		Start()
	},
}

// Start() is the entrypoint of the application
func Start() {
	// open the ledger; the genesis file is applied on first start
	app, err := controller.New(config, nil, l)
	if err != nil {
		l.Fatal(err.Error())
	}
	app.Start()
	// cancelled on a kill signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGABRT)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return rpc.NewServer(app, config, l.WithPrefix("rpc")).Start(ctx)
	})
	g.Go(func() error {
		return metrics.NewServer(config.MetricsConfig, l.WithPrefix("metrics")).Start(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		l.Infof("Exit command received")
		return nil
	})
	if e := g.Wait(); e != nil {
		l.Errorf("RPC server stopped with err: %s", e.Error())
	}
	// gracefully stop the app
	app.Stop()
	os.Exit(0)
}

// InitializeDataDirectory() populates the data directory with configuration and genesis files if missing
func InitializeDataDirectory(dataDirPath string, log lib.LoggerI) (c lib.Config) {
	// make the data dir if missing
	if err := os.MkdirAll(dataDirPath, os.ModePerm); err != nil {
		log.Fatal(err.Error())
	}
	// make the config.json file if missing
	configFilePath := filepath.Join(dataDirPath, lib.ConfigFilePath)
	if _, err := os.Stat(configFilePath); errors.Is(err, os.ErrNotExist) {
		log.Infof("Creating %s file", lib.ConfigFilePath)
		if err = lib.DefaultConfig().WriteToFile(configFilePath); err != nil {
			log.Fatal(err.Error())
		}
	}
	// create the genesis file if missing
	if _, err := os.Stat(filepath.Join(dataDirPath, lib.GenesisFilePath)); errors.Is(err, os.ErrNotExist) {
		log.Infof("Creating %s file", lib.GenesisFilePath)
		genesis, e := controller.DefaultGenesis()
		if e != nil {
			log.Fatal(e.Error())
		}
		if e = genesis.WriteToFile(dataDirPath); e != nil {
			log.Fatal(e.Error())
		}
	}
	// load the config object
	c, err := lib.NewConfigFromFile(configFilePath)
	if err != nil {
		log.Fatal(err.Error())
	}
	// set the data-directory
	c.DataDirPath = dataDirPath
	return
}

func writeToConsole(a any, err error) {
	if err != nil {
		l.Fatal(err.Error())
	}
	switch v := a.(type) {
	case int, uint32, uint64:
		p := message.NewPrinter(language.English)
		if _, err = p.Printf("%d\n", v); err != nil {
			l.Fatal(err.Error())
		}
	case *uint64:
		writeToConsole(*v, nil)
	case *string:
		fmt.Println(*v)
	case string:
		fmt.Println(v)
	default:
		s, e := lib.MarshalJSONIndentString(a)
		if e != nil {
			l.Fatal(e.Error())
		}
		fmt.Println(s)
	}
}
