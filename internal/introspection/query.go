package introspection

// Query is the introspection document sent to an endpoint to obtain the
// schema the synthesizer works against. It requests only what the client
// data layer consumes: type kinds, fields, arguments, and descriptions.
const Query = `
query IntrospectionQuery {
	__schema {
		queryType { name }
		mutationType { name }
		types {
			...FullType
		}
	}
}
fragment FullType on __Type {
	kind
	name
	description
	fields(includeDeprecated: true) {
		name
		description
		args {
			...InputValue
		}
		type {
			...TypeRef
		}
	}
	inputFields {
		...InputValue
	}
	enumValues(includeDeprecated: true) {
		name
		description
	}
}
fragment InputValue on __InputValue {
	name
	description
	type { ...TypeRef }
}
fragment TypeRef on __Type {
	kind
	name
	ofType {
		kind
		name
		ofType {
			kind
			name
			ofType {
				kind
				name
				ofType {
					kind
					name
					ofType {
						kind
						name
						ofType {
							kind
							name
							ofType {
								kind
								name
							}
						}
					}
				}
			}
		}
	}
}
`
