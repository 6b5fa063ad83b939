//go:generate mockgen -destination=mock_host.go -package=host github.com/sarchlab/cgramap/host Function,LoopTree

package host
