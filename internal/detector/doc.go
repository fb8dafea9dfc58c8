// Package detector provides the object detectors the pipeline consumes.
//
// Every backend implements Detector: given an image and a confidence
// threshold it returns boxes in the image's pixel coordinates with a class
// index and a confidence in [0,1]. Failures and malformed output are reported
// as plate.ErrDetectionUnavailable.
//
// Backends are selected by Open from a source string:
//   - "http://..." or "https://..." posts the image to an inference service.
//   - "tesseract" or "tesseract:<lang>" runs Tesseract per symbol (cgo builds).
//   - a path ending in ".onnx" runs a YOLO model through OpenCV (gocv builds).
//   - "contours" proposes plates from closed edge outlines, without a model.
package detector
