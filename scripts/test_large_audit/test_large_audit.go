// Manual probe for large audit runs. Fetches a few thousand synthetic
// serials through the full pipeline and reports duration, allocation
// growth, and a heap profile for pprof.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"testing"
	"time"

	"github.com/fleetops/bpa-app/bpa/audit"
	"github.com/fleetops/bpa-app/bpa/client"
	"github.com/fleetops/bpa-app/bpa/gen"
	"github.com/fleetops/bpa-app/bpa/report"
	"github.com/fleetops/bpa-app/bpa/serials"
	"github.com/fleetops/bpa-app/conf"
)

var serialCount = flag.Int("count", 5000, "how many synthetic serials to push through the audit")

func main() {
	flag.Parse()

	f, err := os.Create("./memprofile.prof")
	if err != nil {
		log.Fatal("could not create memory profile: ", err)
	}
	defer f.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatal("could not start stub server: ", err)
	}
	go func() {
		_ = http.Serve(ln, gen.StubHandler())
	}()
	defer ln.Close()

	if err := conf.SetEnv(&testing.T{}, "BPA_API_URL", "http://"+ln.Addr().String()); err != nil {
		log.Fatal("could not point the audit at the stub server: ", err)
	}

	dir, err := ioutil.TempDir("", "bpa-large-*")
	if err != nil {
		log.Fatal("could not create working directory: ", err)
	}
	defer os.RemoveAll(dir)

	listPath := filepath.Join(dir, "serials.txt")
	if _, err := gen.GenerateSerialList(listPath, *serialCount); err != nil {
		log.Fatal("could not generate serial list: ", err)
	}

	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	auditor := &audit.Auditor{
		Client:  client.NewMySonicWallClient("Bearer load-test-token"),
		Loader:  serials.NewLoader(listPath),
		Saver:   report.NewSaver(filepath.Join(dir, "backupreport.csv")),
		Console: ioutil.Discard,
	}

	start := time.Now()
	if err := auditor.Run(context.Background(), listPath, filepath.Join(dir, "backupreport.csv")); err != nil {
		log.Fatal("audit run failed: ", err)
	}
	elapsed := time.Since(start)

	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	fmt.Printf("audited %d serial(s) in %s\n", *serialCount, elapsed)
	fmt.Printf("TotalAlloc growth: %d bytes\n", after.TotalAlloc-before.TotalAlloc)

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Fatal("could not write memory profile: ", err)
	}
}
