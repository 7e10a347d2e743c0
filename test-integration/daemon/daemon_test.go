package integration

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bwt-dev/libbwt-go/internal/bitcoind"
	"github.com/bwt-dev/libbwt-go/internal/fault"
	"github.com/bwt-dev/libbwt-go/pkg/config"
	"github.com/bwt-dev/libbwt-go/pkg/daemon"
	"github.com/bwt-dev/libbwt-go/pkg/engine"
	"github.com/bwt-dev/libbwt-go/test-integration/daemon/helpers"
)

const scriptedConfig = `{"network": "regtest", "setup_logger": false}`

var _ = Describe("Daemon", Serial, func() {
	var callbacks *helpers.RecordingCallbacks

	BeforeEach(func() {
		callbacks = &helpers.RecordingCallbacks{}
	})

	Context("with a scripted engine", Label("scripted"), func() {
		It("should deliver callbacks in order and stop on shutdown", func() {
			daemon.RegisterEngine(&helpers.ScriptedEngine{
				OnBoot: func(_ context.Context, _ *config.Config, p engine.ProgressSender) (engine.App, error) {
					Expect(p.Send(engine.SyncProgress(0.5, 1700000000))).To(Succeed())
					Expect(p.Send(engine.ScanProgress(0.25, 120))).To(Succeed())
					Eventually(callbacks.Events).Should(HaveLen(3))
					return &helpers.ScriptedApp{Electrum: "127.0.0.1:50001", HTTP: "127.0.0.1:3060"}, nil
				},
			})
			callbacks.ReadyHook = daemon.Shutdown

			Expect(daemon.Start(scriptedConfig, callbacks)).To(Succeed())
			Expect(callbacks.Events()).To(Equal([]string{
				"booting",
				"sync 0.50 1700000000",
				"scan 0.25 120",
				"electrum 127.0.0.1:50001",
				"http 127.0.0.1:3060",
				"ready",
			}))

			By("ignoring a second use of the token")
			Expect(func() { daemon.Shutdown(callbacks.Token()) }).NotTo(Panic())
		})

		It("should stop without readiness when shutdown is requested during boot", func() {
			daemon.RegisterEngine(&helpers.ScriptedEngine{
				OnBoot: func(ctx context.Context, _ *config.Config, _ engine.ProgressSender) (engine.App, error) {
					select {
					case <-ctx.Done():
					case <-time.After(10 * time.Second):
						return nil, errors.New("boot was not interrupted")
					}
					return &helpers.ScriptedApp{HTTP: "127.0.0.1:3060"}, nil
				},
			})
			callbacks.BootingHook = func(token int64) {
				go daemon.Shutdown(token)
			}

			Expect(daemon.Start(scriptedConfig, callbacks)).To(Succeed())
			Expect(callbacks.Events()).To(Equal([]string{"booting"}))
		})

		It("should stop the sync loop when shutdown is requested while ready", func() {
			synced := make(chan struct{})
			daemon.RegisterEngine(&helpers.ScriptedEngine{
				OnBoot: func(context.Context, *config.Config, engine.ProgressSender) (engine.App, error) {
					return &helpers.ScriptedApp{OnSync: func(shutdown <-chan struct{}) error {
						close(synced)
						<-shutdown
						return nil
					}}, nil
				},
			})
			callbacks.ReadyHook = func(token int64) {
				go func() {
					<-synced
					daemon.Shutdown(token)
				}()
			}

			Expect(daemon.Start(scriptedConfig, callbacks)).To(Succeed())
			Expect(callbacks.Events()).To(Equal([]string{"booting", "ready"}))
		})

		It("should reject an invalid configuration before booting", func() {
			daemon.RegisterEngine(&helpers.ScriptedEngine{
				OnBoot: func(context.Context, *config.Config, engine.ProgressSender) (engine.App, error) {
					Fail("engine must not boot")
					return nil, nil
				},
			})

			err := daemon.Start(`{"network": `, callbacks)

			var ferr *fault.Error
			Expect(errors.As(err, &ferr)).To(BeTrue())
			Expect(ferr.Kind()).To(Equal(fault.KindInvalidConfig))
			Expect(ferr.Error()).To(HavePrefix("Invalid config"))
			Expect(callbacks.Events()).To(BeEmpty())
		})

		It("should report an engine panic as a bridge fault", func() {
			daemon.RegisterEngine(&helpers.ScriptedEngine{
				OnBoot: func(context.Context, *config.Config, engine.ProgressSender) (engine.App, error) {
					panic("engine exploded")
				},
			})

			err := daemon.Start(scriptedConfig, callbacks)

			var ferr *fault.Error
			Expect(errors.As(err, &ferr)).To(BeTrue())
			Expect(ferr.Kind()).To(Equal(fault.KindBridgeFault))
			Expect(ferr.Error()).To(Equal("engine exploded"))
			Expect(callbacks.Events()).To(Equal([]string{"booting"}))
		})

		It("should report engine failures with their message", func() {
			daemon.RegisterEngine(&helpers.ScriptedEngine{
				OnBoot: func(context.Context, *config.Config, engine.ProgressSender) (engine.App, error) {
					return nil, errors.New("failed to import descriptors: wallet is locked")
				},
			})

			err := daemon.Start(scriptedConfig, callbacks)

			var ferr *fault.Error
			Expect(errors.As(err, &ferr)).To(BeTrue())
			Expect(ferr.Kind()).To(Equal(fault.KindEngineFailure))
			Expect(ferr.Error()).To(Equal("failed to import descriptors: wallet is locked"))
		})
	})

	Context("with the bitcoind engine", Label("bitcoind"), func() {
		var node *helpers.MockNode

		BeforeEach(func() {
			node = helpers.NewMockNode()
			daemon.RegisterEngine(bitcoind.New(bitcoind.WithGatherer(nil)))
		})

		AfterEach(func() {
			node.Close()
		})

		It("should pass the RPC check against a reachable node", func() {
			Expect(daemon.TestRPC(node.Config(""))).To(Succeed())
		})

		It("should fail the RPC check against an unreachable node", func() {
			node.Close()

			err := daemon.TestRPC(node.Config(""))

			var ferr *fault.Error
			Expect(errors.As(err, &ferr)).To(BeTrue())
			Expect(ferr.Kind()).To(Equal(fault.KindEngineFailure))
			Expect(ferr.Error()).To(HavePrefix("bitcoind RPC check failed: "))
		})

		It("should report sync progress and serve the status API until shutdown", func() {
			node.On("getblockchaininfo",
				helpers.ChainInfo(true, 0.2),
				helpers.ChainInfo(true, 0.6),
				helpers.ChainInfo(false, 1),
			)

			// The status server starts serving once OnReady returned
			statusCode := make(chan int, 1)
			callbacks.ReadyHook = func(token int64) {
				var addr string
				for _, event := range callbacks.Events() {
					if strings.HasPrefix(event, "http ") {
						addr = strings.TrimPrefix(event, "http ")
					}
				}

				go func() {
					defer daemon.Shutdown(token)
					client := &http.Client{Timeout: time.Second}
					deadline := time.Now().Add(5 * time.Second)
					for time.Now().Before(deadline) {
						resp, err := client.Get("http://" + addr + "/status")
						if err == nil {
							_ = resp.Body.Close()
							if resp.StatusCode == http.StatusOK {
								statusCode <- resp.StatusCode
								return
							}
						}
						time.Sleep(10 * time.Millisecond)
					}
					statusCode <- 0
				}()
			}

			Expect(daemon.Start(node.Config(`, "http_addr": "127.0.0.1:0"`), callbacks)).To(Succeed())
			Expect(<-statusCode).To(Equal(http.StatusOK))

			events := callbacks.Events()
			Expect(events[0]).To(Equal("booting"))
			Expect(events).To(ContainElement("sync 0.60 1700000000"))
			Expect(events[len(events)-1]).To(Equal("ready"))
		})

		It("should abort the boot when shutdown is requested while the node warms up", func() {
			node.On("getblockchaininfo", &helpers.NodeError{Code: -28, Message: "Loading block index..."})
			callbacks.BootingHook = func(token int64) {
				go func() {
					time.Sleep(50 * time.Millisecond)
					daemon.Shutdown(token)
				}()
			}

			Expect(daemon.Start(node.Config(""), callbacks)).To(Succeed())
			Expect(callbacks.Events()).To(Equal([]string{"booting"}))
		})
	})
})
