package renderer

// The surface shader lights flat-shaded triangles with one point light.
// A zero normal marks a degenerate triangle, drawn with ambient light only.
const surfaceVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

out vec3 FragPos;
out vec3 Normal;

void main() {
	vec4 world = model * vec4(aPos, 1.0);
	FragPos = world.xyz;
	Normal = mat3(transpose(inverse(model))) * aNormal;
	gl_Position = projection * view * world;
}
`

const surfaceFragmentShader = `
#version 410 core

in vec3 FragPos;
in vec3 Normal;

uniform vec3 lightPos;
uniform vec3 viewPos;
uniform vec3 cloud_color;
uniform float ambient;

out vec4 FragColor;

void main() {
	if (dot(Normal, Normal) < 1e-12) {
		FragColor = vec4(cloud_color * ambient, 1.0);
		return;
	}

	vec3 n = normalize(Normal);
	vec3 l = normalize(lightPos - FragPos);
	vec3 v = normalize(viewPos - FragPos);

	// Light both sides; winding depends on the source layout.
	if (dot(n, v) < 0.0) {
		n = -n;
	}

	float diff = max(dot(n, l), 0.0);
	float spec = 0.3 * pow(max(dot(v, reflect(-l, n)), 0.0), 32.0);
	FragColor = vec4(cloud_color * min(ambient + diff, 1.0) + vec3(spec), 1.0);
}
`

const lineVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 mvp;

void main() {
	gl_Position = mvp * vec4(aPos, 1.0);
}
`

const lineFragmentShader = `
#version 410 core

uniform vec3 color;

out vec4 FragColor;

void main() {
	FragColor = vec4(color, 1.0);
}
`
