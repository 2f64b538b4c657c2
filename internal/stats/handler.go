package stats

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler exposes the monitor's counters over HTTP.
type Handler struct {
	sweeps *Counter
	checks *Counter
}

func NewHandler(sweeps, checks *Counter) *Handler {
	return &Handler{sweeps: sweeps, checks: checks}
}

func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sweeps": h.sweeps.Value(),
		"checks": h.checks.Value(),
	})
}

func (h *Handler) AddChecks(c *gin.Context) {
	value, err := strconv.ParseInt(c.Query("value"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid value"})
		return
	}
	h.checks.Add(value)
	c.JSON(http.StatusOK, gin.H{"checks": h.checks.Value()})
}

// StressTest hammers a fresh counter with 100 concurrent readers and 10
// writers and reports whether the final value is exact.
func (h *Handler) StressTest(c *gin.Context) {
	cnt := NewCounter()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = cnt.Value()
			}
		}()
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cnt.Add(1)
				time.Sleep(time.Millisecond)
			}
		}()
	}

	wg.Wait()

	final := cnt.Value()
	c.JSON(http.StatusOK, gin.H{
		"expected": 10 * 100,
		"actual":   final,
		"success":  final == 1000,
	})
}
