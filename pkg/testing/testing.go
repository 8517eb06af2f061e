package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// chdir to the project root so logs/ and relative db paths land in one place
	// usage is
	//
	//   in some_test.go,
	//   import (
	//     _ "liyu1981.xyz/glucova-service/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}
