package pipeline

// Image selects the container image of a step or service. The short form is
// just the image name; the object form adds registry credentials and a user.
type Image struct {
	Name     string
	Username *string
	Password *string
	// AWS holds registry credentials for ECR images; it is kept verbatim.
	AWS any
	// RunAsUser is a string or an int.
	RunAsUser any
	// Detailed records that the object form was used.
	Detailed bool
}

func decodeImage(v *validator, value any, p Path) (*Image, bool) {
	img, ok := decodeUnion(v, value, p,
		alternative[Image]{kind: kindString, decode: func(v *validator, value any, p Path) (Image, bool) {
			s, ok := v.str(value, p)
			return Image{Name: s}, ok
		}},
		alternative[Image]{kind: kindObject, decode: decodeImageObject},
	)
	if !ok {
		return nil, false
	}
	return &img, true
}

func decodeImageObject(v *validator, value any, p Path) (Image, bool) {
	r, ok := v.fields(value, p)
	if !ok {
		return Image{}, false
	}
	mark := v.mark()
	img := Image{Detailed: true}
	img.Name = r.requiredString("name")
	img.Username = r.optionalString("username")
	img.Password = r.optionalString("password")
	if aws, ok := r.lookup("aws"); ok {
		img.AWS = cloneValue(aws)
	}
	if user, ok := r.lookup("run-as-user"); ok {
		img.RunAsUser = decodeRunAsUser(v, user, r.at("run-as-user"))
	}
	r.closeStrict()
	return img, v.clean(mark)
}

func decodeRunAsUser(v *validator, value any, p Path) any {
	out, _ := decodeUnion(v, value, p,
		alternative[any]{kind: kindString, decode: func(v *validator, value any, p Path) (any, bool) {
			s, ok := v.str(value, p)
			return s, ok
		}},
		alternative[any]{kind: kindNumber, decode: func(v *validator, value any, p Path) (any, bool) {
			n, ok := v.integer(value, p, noMin, noMax)
			return n, ok
		}},
	)
	return out
}

func (img *Image) toWire() any {
	if !img.Detailed {
		return img.Name
	}
	m := map[string]any{"name": img.Name}
	if img.Username != nil {
		m["username"] = *img.Username
	}
	if img.Password != nil {
		m["password"] = *img.Password
	}
	if img.AWS != nil {
		m["aws"] = cloneValue(img.AWS)
	}
	if img.RunAsUser != nil {
		m["run-as-user"] = img.RunAsUser
	}
	return m
}
