package motion

import "github.com/pkg/errors"

// errNonInvertibleInnovation is returned by GatingDistance when the
// innovation covariance is singular, which can happen for a
// pathologically degenerate track (zero measurement noise and a
// collapsed covariance).
var errNonInvertibleInnovation = errors.New("motion: innovation covariance is not invertible")
