// Package domain models vegetation-risk captures produced by the roadside
// camera rigs and the display records the map UI renders from them.
//
// # Data Source
//
// Each capture is written by a device (typically a Raspberry Pi with one or
// more cameras and a GPS receiver) into the captures table. The image itself
// lives in S3; the row carries the bucket/key, the GPS fix, and the output of
// the on-device vegetation classifier. A gateway endpoint exposes the table as
//
//	GET <endpoint>?limit=<n>&device_name=<d>&start_timestamp=<s>&end_timestamp=<e>
//	-> {"items": [<raw record>, ...]}  or  {"error": "<message>"}
//
// # Raw Record Conventions
//
// Every field is optional. Coordinates, altitude, camera_id, and
// num_satellites arrive either as JSON numbers or as numeric strings
// depending on how the row was written, so they decode through [FlexFloat].
// A camera_id that is not numeric ("cam0") is absent. gps_status may be a
// number or a string and decodes through [FlexString].
//
// Capture ids follow "<device>_<yyyymmdd>_<hhmmss>", e.g.
// "raspberry_pi_20260203_175034". When device_name is absent the vehicle id
// is the capture id prefix before the first underscore.
//
// Timestamps are ISO-8601 strings ("2026-02-03T17:50:34.000Z"). The short
// display form is the time portion with fractional seconds cut off.
//
// # Risk Classification
//
//	predicted_class     risk           text token       background
//	no_vegetation       NO_VEGETATION  text-green-400   #16a34a
//	little_vegetation   MEDIUM         text-orange-400  #ea580c
//	lot_vegetation      HIGH           text-red-400     #dc2626
//	back_of_panel       BAD_IMAGE      text-gray-400    #6b7280
//
// Anything else, including an absent class, classifies as NO_VEGETATION.
//
// # Normalization
//
// Raw records are defaulted exactly once by [Normalize], which produces a
// [Capture]. Display logic in [BuildDisplayRecord] only ever sees a Capture.
package domain
