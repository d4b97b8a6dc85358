package config

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sat20-labs/l2asset/common"
)

var (
	SigInt          chan os.Signal
	sigIntMutex     sync.Mutex
	sigIntFuncList  = []func(){}
	releaseFuncList = []func(){}
	releaseOnce     sync.Once
)

// InitSigInt runs the registered callbacks on the first SIGINT/SIGTERM and
// force exits on the third.
func InitSigInt() {
	count := 0
	SigInt = make(chan os.Signal, 100)
	signal.Notify(SigInt, os.Interrupt, syscall.SIGTERM)
	go func() {
		for {
			<-SigInt
			count++
			common.Log.Infof("Received SIGINT, count %d, 3 times will close db and force exit", count)
			if count >= 3 {
				ReleaseRes()
				os.Exit(1)
			} else if count == 1 {
				sigIntMutex.Lock()
				list := append([]func(){}, sigIntFuncList...)
				sigIntMutex.Unlock()
				for index := range list {
					go list[index]()
				}
			}
		}
	}()
}

func RegistSigIntFunc(callback func()) {
	sigIntMutex.Lock()
	defer sigIntMutex.Unlock()
	sigIntFuncList = append(sigIntFuncList, callback)
}

// RegistReleaseFunc adds a resource closer run by ReleaseRes, last registered first.
func RegistReleaseFunc(callback func()) {
	sigIntMutex.Lock()
	defer sigIntMutex.Unlock()
	releaseFuncList = append(releaseFuncList, callback)
}

func ReleaseRes() {
	releaseOnce.Do(func() {
		sigIntMutex.Lock()
		list := append([]func(){}, releaseFuncList...)
		sigIntMutex.Unlock()
		for i := len(list) - 1; i >= 0; i-- {
			list[i]()
		}
	})
}
