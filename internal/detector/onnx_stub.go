//go:build !gocv

package detector

import "errors"

func newONNXDetector(string, Options) (Detector, error) {
	return nil, errors.New("onnx detector requires a build with the gocv tag")
}
